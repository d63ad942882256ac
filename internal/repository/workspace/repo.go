// Package workspace keeps open workspaces in process memory.
package workspace

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kailas-cloud/revisor/internal/domain"
	domws "github.com/kailas-cloud/revisor/internal/domain/workspace"
)

// Repo implements usecase/workspace.Repository.
// Live document trees cannot leave the process, so there is no shared backend.
type Repo struct {
	mu    sync.RWMutex
	items map[string]*domws.Workspace
	limit int
}

// New creates a repository holding at most limit workspaces (0 = unbounded).
func New(limit int) *Repo {
	return &Repo{items: make(map[string]*domws.Workspace), limit: limit}
}

// Create stores ws.
func (r *Repo) Create(_ context.Context, ws *domws.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && len(r.items) >= r.limit {
		return fmt.Errorf("%d workspaces open: %w", len(r.items), domain.ErrWorkspaceLimit)
	}
	r.items[ws.ID()] = ws
	return nil
}

// Get returns the workspace by ID.
func (r *Repo) Get(_ context.Context, id string) (*domws.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrWorkspaceNotFound)
	}
	return ws, nil
}

// List returns all workspaces, oldest first.
func (r *Repo) List(_ context.Context) ([]*domws.Workspace, error) {
	r.mu.RLock()
	out := make([]*domws.Workspace, 0, len(r.items))
	for _, ws := range r.items {
		out = append(out, ws)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID() < out[j].ID()
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

// Delete removes the workspace by ID.
func (r *Repo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrWorkspaceNotFound)
	}
	delete(r.items, id)
	return nil
}
