// Package review drives review units through show, accept and reject.
package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/domain/document"
	domreview "github.com/kailas-cloud/revisor/internal/domain/review"
	"github.com/kailas-cloud/revisor/internal/metrics"
)

// Service applies review transitions inside a workspace.
type Service struct {
	workspaces Workspaces
	logger     *zap.Logger
}

// New creates a review service.
func New(workspaces Workspaces, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{workspaces: workspaces, logger: logger}
}

// List returns the pending units of a workspace in document order.
func (s *Service) List(ctx context.Context, wsID string) ([]domreview.Unit, error) {
	var out []domreview.Unit
	err := s.with(ctx, wsID, func(a *domreview.Arena) error {
		out = a.Pending()
		return nil
	})
	return out, err
}

// Get returns one pending unit.
func (s *Service) Get(ctx context.Context, wsID, unitID string) (domreview.Unit, error) {
	var u domreview.Unit
	err := s.with(ctx, wsID, func(a *domreview.Arena) (err error) {
		u, err = a.Get(unitID)
		return err
	})
	return u, err
}

// Show reveals a hidden unit.
func (s *Service) Show(ctx context.Context, wsID, unitID string) (domreview.Unit, error) {
	return s.transition(ctx, wsID, unitID, "show", (*domreview.Arena).Show)
}

// Accept commits a shown unit.
func (s *Service) Accept(ctx context.Context, wsID, unitID string) (domreview.Unit, error) {
	return s.transition(ctx, wsID, unitID, "accept", (*domreview.Arena).Accept)
}

// Reject restores a shown unit's original.
func (s *Service) Reject(ctx context.Context, wsID, unitID string) (domreview.Unit, error) {
	return s.transition(ctx, wsID, unitID, "reject", (*domreview.Arena).Reject)
}

// AcceptAll accepts every pending unit in document order.
func (s *Service) AcceptAll(ctx context.Context, wsID string) ([]domreview.Unit, error) {
	return s.bulk(ctx, wsID, "accept", (*domreview.Arena).AcceptAll)
}

// RejectAll rejects every pending unit in document order.
func (s *Service) RejectAll(ctx context.Context, wsID string) ([]domreview.Unit, error) {
	return s.bulk(ctx, wsID, "reject", (*domreview.Arena).RejectAll)
}

func (s *Service) transition(
	ctx context.Context,
	wsID, unitID, action string,
	fn func(*domreview.Arena, string) (domreview.Unit, error),
) (domreview.Unit, error) {
	var u domreview.Unit
	err := s.with(ctx, wsID, func(a *domreview.Arena) (err error) {
		u, err = fn(a, unitID)
		return err
	})
	if err != nil {
		return domreview.Unit{}, fmt.Errorf("%s unit: %w", action, err)
	}
	metrics.ReviewTransitionsTotal.WithLabelValues(action).Inc()
	s.logger.Debug("Review transition",
		zap.String("workspace", wsID),
		zap.String("unit", unitID),
		zap.String("action", action),
	)
	return u, nil
}

func (s *Service) bulk(
	ctx context.Context,
	wsID, action string,
	fn func(*domreview.Arena) ([]domreview.Unit, error),
) ([]domreview.Unit, error) {
	var units []domreview.Unit
	err := s.with(ctx, wsID, func(a *domreview.Arena) (err error) {
		units, err = fn(a)
		return err
	})
	metrics.ReviewTransitionsTotal.WithLabelValues(action).Add(float64(len(units)))
	if err != nil {
		return units, fmt.Errorf("%s all: %w", action, err)
	}
	s.logger.Info("Resolved pending units",
		zap.String("workspace", wsID),
		zap.String("action", action),
		zap.Int("units", len(units)),
	)
	return units, nil
}

func (s *Service) with(ctx context.Context, wsID string, fn func(*domreview.Arena) error) error {
	ws, err := s.workspaces.Get(ctx, wsID)
	if err != nil {
		return fmt.Errorf("get workspace: %w", err)
	}
	return ws.Do(func(_ *document.Document, a *domreview.Arena) error {
		return fn(a)
	})
}
