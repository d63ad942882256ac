package workspace

import (
	"context"

	domws "github.com/kailas-cloud/revisor/internal/domain/workspace"
)

// Repository defines the storage contract for workspaces.
type Repository interface {
	Create(ctx context.Context, ws *domws.Workspace) error
	Get(ctx context.Context, id string) (*domws.Workspace, error)
	List(ctx context.Context) ([]*domws.Workspace, error)
	Delete(ctx context.Context, id string) error
}
