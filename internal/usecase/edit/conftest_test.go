package edit

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/review"
	"github.com/kailas-cloud/revisor/internal/domain/workspace"
	"github.com/kailas-cloud/revisor/internal/usecase/completion"
	"github.com/kailas-cloud/revisor/internal/usecase/locate"
)

// mockCompleter answers by prompt kind.
type mockCompleter struct {
	analysis func() (string, error)
	rewrite  func(prompt string) (string, error)
	replace  func() (string, error)
	ask      func() (string, error)
	prompts  []string
	creds    []domain.Credentials
}

func (m *mockCompleter) Complete(
	_ context.Context, prompt string, creds domain.Credentials, _ completion.Observer,
) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.creds = append(m.creds, creds)
	switch {
	case strings.HasPrefix(prompt, "You locate") && m.analysis != nil:
		return m.analysis()
	case strings.HasPrefix(prompt, "You rewrite") && m.rewrite != nil:
		return m.rewrite(prompt)
	case strings.HasPrefix(prompt, "You are a JSON") && m.replace != nil:
		return m.replace()
	case strings.HasPrefix(prompt, "You are a helpful") && m.ask != nil:
		return m.ask()
	}
	return "", domain.ErrMalformedOutput
}

func answer(s string) func() (string, error) {
	return func() (string, error) { return s, nil }
}

func newTestService(m *mockCompleter) *Service {
	return New(m, locate.New(0, nil), domain.Credentials{"default-key"}, nil)
}

func newTestWorkspace(t *testing.T, markup string) *workspace.Workspace {
	t.Helper()
	doc, err := document.Parse(markup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return workspace.New(doc)
}

func markupOf(t *testing.T, ws *workspace.Workspace) string {
	t.Helper()
	m, _, _ := ws.Snapshot()
	return m
}

func acceptAll(t *testing.T, ws *workspace.Workspace) {
	t.Helper()
	err := ws.Do(func(_ *document.Document, a *review.Arena) error {
		_, err := a.AcceptAll()
		return err
	})
	if err != nil {
		t.Fatalf("AcceptAll: %v", err)
	}
}
