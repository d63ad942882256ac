package revisor

import (
	"time"

	"github.com/kailas-cloud/revisor/internal/domain"
	domreview "github.com/kailas-cloud/revisor/internal/domain/review"
	domws "github.com/kailas-cloud/revisor/internal/domain/workspace"
	edituc "github.com/kailas-cloud/revisor/internal/usecase/edit"
)

// Review unit states.
const (
	StateHidden   = string(domreview.StateHidden)
	StateShown    = string(domreview.StateShown)
	StateAccepted = string(domreview.StateAccepted)
	StateRejected = string(domreview.StateRejected)
)

// DocumentInfo describes an open document.
type DocumentInfo struct {
	ID        string
	Markup    string
	Pending   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unit is one rewrite awaiting a decision.
type Unit struct {
	ID    string
	Kind  string // inline, block, global
	State string

	Original    string
	Replacement string
	// Annotated is the live rendering with <del>/<ins> change spans.
	Annotated string

	Deleted  int
	Inserted int

	CreatedAt time.Time
}

// AttemptFailure describes one failed credential attempt.
type AttemptFailure struct {
	Attempt int
	Reason  string
	HasNext bool
}

// EditResult summarizes one instruction run.
type EditResult struct {
	Applied   int
	Failed    int
	Unchanged int
	// Skipped counts blocks left alone because a pending unit holds them.
	Skipped int
	Units   []Unit

	Keywords string
	Scope    string
	Global   bool
	// WholeDocument is set when nothing matched and the whole document was rewritten.
	WholeDocument bool
	Message       string

	Failures []AttemptFailure
}

// Answer is the model's reply to a question about a document.
type Answer struct {
	Text     string
	Failures []AttemptFailure
}

func documentInfo(ws *domws.Workspace) DocumentInfo {
	markup, pending, updated := ws.Snapshot()
	return DocumentInfo{
		ID:        ws.ID(),
		Markup:    markup,
		Pending:   len(pending),
		CreatedAt: ws.CreatedAt(),
		UpdatedAt: updated,
	}
}

func fromUnit(u domreview.Unit) Unit {
	return Unit{
		ID:          u.ID,
		Kind:        string(u.Kind),
		State:       string(u.State),
		Original:    u.Original,
		Replacement: u.Replacement,
		Annotated:   u.Annotated,
		Deleted:     u.Deleted,
		Inserted:    u.Inserted,
		CreatedAt:   u.CreatedAt,
	}
}

func fromUnits(units []domreview.Unit) []Unit {
	out := make([]Unit, len(units))
	for i, u := range units {
		out[i] = fromUnit(u)
	}
	return out
}

func fromFailures(fs []domain.AttemptFailure) []AttemptFailure {
	if len(fs) == 0 {
		return nil
	}
	out := make([]AttemptFailure, len(fs))
	for i, f := range fs {
		out[i] = AttemptFailure{Attempt: f.Attempt, Reason: f.Reason, HasNext: f.HasNext}
	}
	return out
}

func fromOutcome(o edituc.Outcome, failures []domain.AttemptFailure) EditResult {
	return EditResult{
		Applied:       o.Applied,
		Failed:        o.Failed,
		Unchanged:     o.Unchanged,
		Skipped:       o.Skipped,
		Units:         fromUnits(o.Units),
		Keywords:      o.Analysis.Keywords,
		Scope:         string(o.Analysis.Scope),
		Global:        o.Analysis.Global,
		WholeDocument: o.WholeDocument,
		Message:       o.Message,
		Failures:      fromFailures(failures),
	}
}
