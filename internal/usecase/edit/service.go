// Package edit runs an instruction through analysis, location, rewriting and review mounting.
package edit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/region"
	"github.com/kailas-cloud/revisor/internal/domain/review"
	"github.com/kailas-cloud/revisor/internal/domain/workspace"
	"github.com/kailas-cloud/revisor/internal/metrics"
	"github.com/kailas-cloud/revisor/internal/usecase/completion"
	"github.com/kailas-cloud/revisor/internal/usecase/locate"
)

// Edit modes.
const (
	ModeLocate  = "locate"
	ModeReplace = "replace"
)

// NoEditsMessage is reported when a run mounted nothing.
const NoEditsMessage = "no edits were necessary"

// Request is one instruction against a workspace.
type Request struct {
	Instruction string
	// Selection restricts replace mode to content containing this text.
	Selection string
	// FileName is passed to the model as context.
	FileName string
	// Credentials override the service defaults when non-empty.
	Credentials domain.Credentials
	// OnAttemptFailed is told about each failed credential attempt.
	OnAttemptFailed completion.Observer
}

// Outcome summarizes a run.
type Outcome struct {
	Applied   int
	Failed    int
	Unchanged int
	Units     []review.Unit
	Analysis  Analysis
	// Skipped counts top-level blocks left alone because a pending unit holds them.
	Skipped int
	// WholeDocument is set when nothing matched and the whole document was rewritten.
	WholeDocument bool
	Message       string
}

// Service orchestrates edit runs.
type Service struct {
	completer Completer
	locator   Locator
	creds     domain.Credentials
	logger    *zap.Logger
}

// New creates an edit service. creds are used when a request carries none.
func New(completer Completer, locator Locator, creds domain.Credentials, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{completer: completer, locator: locator, creds: creds, logger: logger}
}

// Edit analyzes the instruction, locates target regions, rewrites each one and
// mounts the results as hidden review units. A region whose rewrite fails is
// left untouched; only a missing credential set aborts the whole run.
func (s *Service) Edit(ctx context.Context, ws *workspace.Workspace, req Request) (Outcome, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return Outcome{}, domain.ErrInvalidInstruction
	}

	var out Outcome
	err := ws.Begin(func(doc *document.Document, arena *review.Arena) error {
		var err error
		out, err = s.run(ctx, doc, arena, req)
		return err
	})
	s.record(ModeLocate, out, err)
	return out, err
}

func (s *Service) run(
	ctx context.Context, doc *document.Document, arena *review.Arena, req Request,
) (Outcome, error) {
	var out Outcome

	a, err := s.analyze(ctx, doc, req)
	if err != nil {
		return out, err
	}
	out.Analysis = a

	regions, err := s.locator.Locate(doc, locate.Query{Keywords: a.Keywords, Scope: a.Scope, Global: a.Global})
	switch {
	case errors.Is(err, domain.ErrNoMatch):
		s.logger.Info("No region matched, rewriting whole document", zap.String("keywords", a.Keywords))
		out.WholeDocument = true
		err = s.rewriteDocument(ctx, doc, arena, req, &out)
	case err != nil:
		return out, fmt.Errorf("locate: %w", err)
	default:
		err = s.rewriteRegions(ctx, arena, req, regions, &out)
	}
	if err != nil {
		return out, err
	}

	out.Message = summary(out.Applied)
	if out.Skipped > 0 {
		out.Message += fmt.Sprintf(" (%d under review skipped)", out.Skipped)
	}
	return out, nil
}

// analyze asks the model for keywords, scope and the global flag.
// Malformed output falls back to the instruction text.
func (s *Service) analyze(ctx context.Context, doc *document.Document, req Request) (Analysis, error) {
	raw, err := s.complete(ctx, analysisPrompt(req.Instruction, doc.Text()), req)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}
	a, err := parseAnalysis(raw)
	if err != nil {
		s.logger.Warn("Analysis output unusable, using instruction as keywords", zap.Error(err))
		return fallbackAnalysis(req.Instruction), nil
	}
	return a, nil
}

// rewriteRegions rewrites each captured region in turn and mounts the result.
func (s *Service) rewriteRegions(
	ctx context.Context, arena *review.Arena, req Request, regions []region.Region, out *Outcome,
) error {
	// Capture every region's markup before the first mount changes the tree.
	markups := make([]string, len(regions))
	for i, r := range regions {
		markups[i] = r.Markup()
	}

	var lastErr error
	for i, r := range regions {
		raw, err := s.complete(ctx, rewritePrompt(req.Instruction, markups[i]), req)
		if err != nil {
			if fatal(ctx, err) {
				return fmt.Errorf("rewrite region: %w", err)
			}
			s.logger.Warn("Region rewrite failed", zap.Int("region", i), zap.Error(err))
			out.Failed++
			lastErr = err
			continue
		}

		nodes, err := replacementNodes(raw, r)
		if err != nil {
			s.logger.Warn("Region rewrite unusable", zap.Int("region", i), zap.Error(err))
			out.Failed++
			continue
		}
		s.mount(arena, review.Change{Kind: r.Kind, Targets: r.Nodes, Replacement: nodes}, out)
	}

	// A run where every region hit a provider error is a failed run.
	if out.Applied == 0 && out.Unchanged == 0 && lastErr != nil && out.Failed == len(regions) {
		return fmt.Errorf("rewrite region: %w", lastErr)
	}
	return nil
}

// rewriteDocument rewrites the whole document and mounts one unit per changed
// top-level node, pairing old and new nodes by position. Blocks already under
// review are left out of the rewrite and counted as skipped.
func (s *Service) rewriteDocument(
	ctx context.Context, doc *document.Document, arena *review.Arena, req Request, out *Outcome,
) error {
	blocks := doc.Blocks()
	oldBlocks := make([]*html.Node, 0, len(blocks))
	for _, b := range blocks {
		if review.Occupied(b) {
			out.Skipped++
			continue
		}
		oldBlocks = append(oldBlocks, b)
	}
	if len(blocks) > 0 && len(oldBlocks) == 0 {
		s.logger.Info("Every block is under review, nothing to rewrite", zap.Int("skipped", out.Skipped))
		return nil
	}
	source := doc.Markup()
	if out.Skipped > 0 {
		source = document.Render(oldBlocks)
	}

	raw, err := s.complete(ctx, rewritePrompt(req.Instruction, source), req)
	if err != nil {
		return fmt.Errorf("rewrite document: %w", err)
	}
	markup, err := NormalizeMarkup(raw)
	if err != nil {
		s.logger.Warn("Document rewrite unusable", zap.Error(err))
		out.Failed++
		return nil
	}
	parsed, err := document.ParseFragment(markup)
	if err != nil {
		s.logger.Warn("Document rewrite unparseable", zap.Error(err))
		out.Failed++
		return nil
	}

	newBlocks := document.Structural(parsed)

	// Extra new nodes are inserted first, while the last block is still
	// attached. Inserting in reverse right after it keeps their order.
	if len(newBlocks) > len(oldBlocks) {
		extra := newBlocks[len(oldBlocks):]
		if len(blocks) == 0 {
			for _, n := range extra {
				s.mount(arena, review.Change{Kind: region.KindGlobal, Replacement: []*html.Node{n}}, out)
			}
		} else {
			anchor := blocks[len(blocks)-1]
			for i := len(extra) - 1; i >= 0; i-- {
				s.mount(arena, review.Change{Kind: region.KindGlobal, Anchor: anchor, Replacement: []*html.Node{extra[i]}}, out)
			}
		}
	}

	for i, o := range oldBlocks {
		c := review.Change{Kind: region.KindGlobal, Targets: []*html.Node{o}}
		if i < len(newBlocks) {
			c.Replacement = []*html.Node{newBlocks[i]}
		}
		s.mount(arena, c, out)
	}
	return nil
}

func (s *Service) mount(arena *review.Arena, c review.Change, out *Outcome) {
	u, err := arena.Mount(c)
	switch {
	case errors.Is(err, domain.ErrNoChange):
		out.Unchanged++
	case err != nil:
		s.logger.Warn("Mount failed", zap.Error(err))
		out.Failed++
	default:
		out.Applied++
		out.Units = append(out.Units, u)
		metrics.RegionsAppliedTotal.WithLabelValues(string(c.Kind)).Inc()
	}
}

// replacementNodes turns raw rewrite output into detached nodes for r.
// Bare text or inline markup for a single element region is wrapped in a
// copy of that element so the block structure survives.
func replacementNodes(raw string, r region.Region) ([]*html.Node, error) {
	markup, err := NormalizeMarkup(raw)
	if err != nil {
		return nil, err
	}
	nodes, err := document.ParseFragment(markup)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err)
	}
	if len(r.Nodes) == 1 && r.Nodes[0].Type == html.ElementNode && allInline(nodes) {
		shell := document.ShallowCopy(r.Nodes[0])
		for _, n := range nodes {
			shell.AppendChild(n)
		}
		return []*html.Node{shell}, nil
	}
	return nodes, nil
}

func (s *Service) complete(ctx context.Context, prompt string, req Request) (string, error) {
	creds := req.Credentials
	if len(creds) == 0 {
		creds = s.creds
	}
	return s.completer.Complete(ctx, prompt, creds, req.OnAttemptFailed)
}

func (s *Service) record(mode string, out Outcome, err error) {
	outcome := "applied"
	switch {
	case err != nil:
		outcome = "error"
	case out.Applied == 0:
		outcome = "noop"
	}
	metrics.EditsTotal.WithLabelValues(mode, outcome).Inc()
	if err != nil {
		s.logger.Warn("Edit run failed", zap.String("mode", mode), zap.Error(err))
		return
	}
	s.logger.Info("Edit run finished",
		zap.String("mode", mode),
		zap.Int("applied", out.Applied),
		zap.Int("failed", out.Failed),
		zap.Int("unchanged", out.Unchanged),
		zap.Int("skipped", out.Skipped),
		zap.Bool("whole_document", out.WholeDocument),
	)
}

// fatal reports errors that end the run instead of one region.
func fatal(ctx context.Context, err error) bool {
	return errors.Is(err, domain.ErrNoCredentials) || ctx.Err() != nil
}

func summary(applied int) string {
	switch applied {
	case 0:
		return NoEditsMessage
	case 1:
		return "applied 1 edit"
	default:
		return fmt.Sprintf("applied %d edits", applied)
	}
}
