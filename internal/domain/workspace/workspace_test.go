package workspace

import (
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/review"
)

func newWorkspace(t *testing.T, markup string) *Workspace {
	t.Helper()
	doc, err := document.Parse(markup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return New(doc)
}

func TestBegin_RejectsConcurrentRun(t *testing.T) {
	w := newWorkspace(t, `<p>x</p>`)

	entered := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Begin(func(*document.Document, *review.Arena) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	err := w.Begin(func(*document.Document, *review.Arena) error {
		t.Error("second run must not start")
		return nil
	})
	if !errors.Is(err, domain.ErrRunInProgress) {
		t.Errorf("expected ErrRunInProgress, got %v", err)
	}
	if err := w.Reset(nil); !errors.Is(err, domain.ErrRunInProgress) {
		t.Errorf("expected Reset to fail during a run, got %v", err)
	}

	close(release)
	wg.Wait()

	if err := w.Begin(func(*document.Document, *review.Arena) error { return nil }); err != nil {
		t.Errorf("run after release: %v", err)
	}
}

func TestBegin_PropagatesError(t *testing.T) {
	w := newWorkspace(t, `<p>x</p>`)
	boom := errors.New("boom")
	if err := w.Begin(func(*document.Document, *review.Arena) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestReset(t *testing.T) {
	w := newWorkspace(t, `<p>old</p>`)
	doc, _ := document.Parse(`<p>new</p>`)
	if err := w.Reset(doc); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	markup, pending, _ := w.Snapshot()
	if markup != `<p>new</p>` || len(pending) != 0 {
		t.Errorf("unexpected snapshot %q %v", markup, pending)
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	a := newWorkspace(t, "")
	b := newWorkspace(t, "")
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID(), b.ID())
	}
}
