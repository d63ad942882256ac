package workspace

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/revisor/internal/domain/document"
	domws "github.com/kailas-cloud/revisor/internal/domain/workspace"
)

// Service opens, replaces and closes workspaces.
type Service struct {
	repo Repository
}

// New creates a workspace service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Open parses markup into a new workspace.
func (s *Service) Open(ctx context.Context, markup string) (*domws.Workspace, error) {
	doc, err := document.Parse(markup)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	ws := domws.New(doc)
	if err := s.repo.Create(ctx, ws); err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	return ws, nil
}

// Get retrieves a workspace by ID.
func (s *Service) Get(ctx context.Context, id string) (*domws.Workspace, error) {
	ws, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return ws, nil
}

// List returns all open workspaces.
func (s *Service) List(ctx context.Context) ([]*domws.Workspace, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return list, nil
}

// Replace swaps the workspace document for new markup, dropping pending units.
func (s *Service) Replace(ctx context.Context, id, markup string) (*domws.Workspace, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := document.Parse(markup)
	if err != nil {
		return nil, fmt.Errorf("replace document: %w", err)
	}
	if err := ws.Reset(doc); err != nil {
		return nil, fmt.Errorf("replace document: %w", err)
	}
	return ws, nil
}

// Close removes a workspace.
func (s *Service) Close(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("close workspace: %w", err)
	}
	return nil
}
