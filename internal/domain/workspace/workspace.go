// Package workspace pairs a live document with its review arena and serializes access.
package workspace

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/review"
)

// Workspace is one open document.
type Workspace struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	doc       *document.Document
	arena     *review.Arena
	updatedAt time.Time
}

// New wraps doc in a workspace with a fresh ID.
func New(doc *document.Document) *Workspace {
	now := time.Now()
	return &Workspace{
		id:        uuid.NewString(),
		createdAt: now,
		updatedAt: now,
		doc:       doc,
		arena:     review.NewArena(doc),
	}
}

// ID returns the workspace identifier.
func (w *Workspace) ID() string { return w.id }

// CreatedAt returns the creation time.
func (w *Workspace) CreatedAt() time.Time { return w.createdAt }

// Begin runs fn as the workspace's single edit run.
// Returns domain.ErrRunInProgress without calling fn if another caller holds the workspace.
func (w *Workspace) Begin(fn func(*document.Document, *review.Arena) error) error {
	if !w.mu.TryLock() {
		return domain.ErrRunInProgress
	}
	defer w.mu.Unlock()
	defer w.touch()
	return fn(w.doc, w.arena)
}

// Do runs fn once the workspace is free.
func (w *Workspace) Do(fn func(*document.Document, *review.Arena) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer w.touch()
	return fn(w.doc, w.arena)
}

// Reset swaps in a new document and drops every pending unit.
func (w *Workspace) Reset(doc *document.Document) error {
	if !w.mu.TryLock() {
		return domain.ErrRunInProgress
	}
	defer w.mu.Unlock()
	w.doc = doc
	w.arena = review.NewArena(doc)
	w.touch()
	return nil
}

// Snapshot returns the current markup and pending units.
func (w *Workspace) Snapshot() (string, []review.Unit, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc.Markup(), w.arena.Pending(), w.updatedAt
}

func (w *Workspace) touch() { w.updatedAt = time.Now() }
