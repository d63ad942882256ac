package review

import (
	"context"

	domws "github.com/kailas-cloud/revisor/internal/domain/workspace"
)

// Workspaces resolves a workspace by ID.
type Workspaces interface {
	Get(ctx context.Context, id string) (*domws.Workspace, error)
}
