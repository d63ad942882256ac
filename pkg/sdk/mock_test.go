package revisor

import (
	"context"
	"errors"
	"strings"

	domreview "github.com/kailas-cloud/revisor/internal/domain/review"
	domws "github.com/kailas-cloud/revisor/internal/domain/workspace"
	edituc "github.com/kailas-cloud/revisor/internal/usecase/edit"
)

// --- Generator fake ---

// fakeGenerator answers by prompt kind; the "bad" credential always fails.
type fakeGenerator struct {
	calls int
}

func (g *fakeGenerator) Generate(_ context.Context, credential, prompt string) (string, error) {
	g.calls++
	if credential == "bad" {
		return "", errors.New("quota exceeded")
	}
	switch {
	case strings.HasPrefix(prompt, "You locate"):
		return `{"keywords": "cat sat", "scope": "inline", "isGlobal": false}`, nil
	case strings.HasPrefix(prompt, "You rewrite"):
		return "<p>The dog sat.</p>", nil
	case strings.HasPrefix(prompt, "You are a JSON"):
		return `[{"original": "cat", "replacement": "dog"}]`, nil
	case strings.HasPrefix(prompt, "You are a helpful"):
		return "It is about a cat.", nil
	}
	return "", errors.New("unexpected prompt")
}

// --- workspaceUseCase mock ---

type mockWorkspaceUC struct {
	openFn    func(ctx context.Context, markup string) (*domws.Workspace, error)
	getFn     func(ctx context.Context, id string) (*domws.Workspace, error)
	listFn    func(ctx context.Context) ([]*domws.Workspace, error)
	replaceFn func(ctx context.Context, id, markup string) (*domws.Workspace, error)
	closeFn   func(ctx context.Context, id string) error
}

func (m *mockWorkspaceUC) Open(ctx context.Context, markup string) (*domws.Workspace, error) {
	return m.openFn(ctx, markup)
}

func (m *mockWorkspaceUC) Get(ctx context.Context, id string) (*domws.Workspace, error) {
	return m.getFn(ctx, id)
}

func (m *mockWorkspaceUC) List(ctx context.Context) ([]*domws.Workspace, error) {
	return m.listFn(ctx)
}

func (m *mockWorkspaceUC) Replace(ctx context.Context, id, markup string) (*domws.Workspace, error) {
	return m.replaceFn(ctx, id, markup)
}

func (m *mockWorkspaceUC) Close(ctx context.Context, id string) error {
	return m.closeFn(ctx, id)
}

// --- editUseCase mock ---

type mockEditUC struct {
	editFn    func(ctx context.Context, ws *domws.Workspace, req edituc.Request) (edituc.Outcome, error)
	replaceFn func(ctx context.Context, ws *domws.Workspace, req edituc.Request) (edituc.Outcome, error)
	askFn     func(ctx context.Context, ws *domws.Workspace, q string, req edituc.Request) (string, error)
}

func (m *mockEditUC) Edit(ctx context.Context, ws *domws.Workspace, req edituc.Request) (edituc.Outcome, error) {
	return m.editFn(ctx, ws, req)
}

func (m *mockEditUC) Replace(ctx context.Context, ws *domws.Workspace, req edituc.Request) (edituc.Outcome, error) {
	return m.replaceFn(ctx, ws, req)
}

func (m *mockEditUC) Ask(ctx context.Context, ws *domws.Workspace, q string, req edituc.Request) (string, error) {
	return m.askFn(ctx, ws, q, req)
}

// --- reviewUseCase mock ---

type mockReviewUC struct {
	listFn   func(ctx context.Context, wsID string) ([]domreview.Unit, error)
	unitFn   func(ctx context.Context, wsID, unitID string) (domreview.Unit, error)
	bulkFn   func(ctx context.Context, wsID string) ([]domreview.Unit, error)
	lastCall string
}

func (m *mockReviewUC) List(ctx context.Context, wsID string) ([]domreview.Unit, error) {
	return m.listFn(ctx, wsID)
}

func (m *mockReviewUC) Get(ctx context.Context, wsID, unitID string) (domreview.Unit, error) {
	m.lastCall = "get"
	return m.unitFn(ctx, wsID, unitID)
}

func (m *mockReviewUC) Show(ctx context.Context, wsID, unitID string) (domreview.Unit, error) {
	m.lastCall = "show"
	return m.unitFn(ctx, wsID, unitID)
}

func (m *mockReviewUC) Accept(ctx context.Context, wsID, unitID string) (domreview.Unit, error) {
	m.lastCall = "accept"
	return m.unitFn(ctx, wsID, unitID)
}

func (m *mockReviewUC) Reject(ctx context.Context, wsID, unitID string) (domreview.Unit, error) {
	m.lastCall = "reject"
	return m.unitFn(ctx, wsID, unitID)
}

func (m *mockReviewUC) AcceptAll(ctx context.Context, wsID string) ([]domreview.Unit, error) {
	m.lastCall = "accept_all"
	return m.bulkFn(ctx, wsID)
}

func (m *mockReviewUC) RejectAll(ctx context.Context, wsID string) ([]domreview.Unit, error) {
	m.lastCall = "reject_all"
	return m.bulkFn(ctx, wsID)
}
