package edit

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/region"
	"github.com/kailas-cloud/revisor/internal/domain/review"
	"github.com/kailas-cloud/revisor/internal/domain/workspace"
)

// Replace asks the model for exact substring replacements and mounts one
// inline unit per affected content node. With a Selection, only nodes whose
// text contains it are considered and only the selection is sent.
func (s *Service) Replace(ctx context.Context, ws *workspace.Workspace, req Request) (Outcome, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return Outcome{}, domain.ErrInvalidInstruction
	}

	var out Outcome
	err := ws.Begin(func(doc *document.Document, arena *review.Arena) error {
		text := doc.Text()
		if sel := strings.TrimSpace(req.Selection); sel != "" {
			text = sel
		}
		raw, err := s.complete(ctx, replacePrompt(req.Instruction, text, req.FileName), req)
		if err != nil {
			return fmt.Errorf("replace: %w", err)
		}
		changes, err := parseChanges(raw)
		if err != nil {
			return fmt.Errorf("replace: %w", err)
		}

		groups, order := s.assign(doc, changes, strings.TrimSpace(req.Selection), &out)
		for _, n := range order {
			clone := document.Clone(n)
			for _, c := range groups[n] {
				substitute(clone, c)
			}
			s.mount(arena, review.Change{
				Kind:        region.KindInline,
				Targets:     []*html.Node{n},
				Replacement: []*html.Node{clone},
			}, &out)
		}
		out.Message = summary(out.Applied)
		return nil
	})
	s.record(ModeReplace, out, err)
	return out, err
}

// assign maps each change to the first content node containing its original
// text. Changes that match nothing are counted as failed.
func (s *Service) assign(
	doc *document.Document, changes []Change, selection string, out *Outcome,
) (map[*html.Node][]Change, []*html.Node) {
	groups := make(map[*html.Node][]Change)
	var order []*html.Node
	for _, c := range changes {
		n := findContent(doc.Root(), c.Original, selection)
		if n == nil {
			s.logger.Debug("Replacement target not found", zap.String("original", c.Original))
			out.Failed++
			continue
		}
		if _, seen := groups[n]; !seen {
			order = append(order, n)
		}
		groups[n] = append(groups[n], c)
	}
	return groups, order
}

// findContent returns the innermost content node whose text contains needle,
// taking the first match in document order. Nodes under review are skipped.
func findContent(root *html.Node, needle, selection string) *html.Node {
	var found *html.Node
	document.Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n == root || n.Type != html.ElementNode {
			return true
		}
		if (!document.IsContentTag(n) && !document.HasDirectText(n)) || review.Occupied(n) {
			return true
		}
		text := document.Text(n)
		if strings.Contains(text, needle) && (selection == "" || strings.Contains(text, selection)) {
			found = n
		}
		return true
	})
	if found == nil {
		return nil
	}
	// Narrow down to a nested content node holding the whole needle.
	for {
		var inner *html.Node
		for c := found.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (document.IsContentTag(c) || document.HasDirectText(c)) &&
				strings.Contains(document.Text(c), needle) {
				inner = c
				break
			}
		}
		if inner == nil {
			return found
		}
		found = inner
	}
}

// substitute replaces the first occurrence of c.Original inside n. When the
// text is split across inline elements, n's content is flattened to text.
func substitute(n *html.Node, c Change) {
	replaced := false
	document.Walk(n, func(t *html.Node) bool {
		if replaced {
			return false
		}
		if t.Type == html.TextNode && strings.Contains(t.Data, c.Original) {
			t.Data = strings.Replace(t.Data, c.Original, c.Replacement, 1)
			replaced = true
			return false
		}
		return true
	})
	if replaced {
		return
	}
	text := document.Text(n)
	if !strings.Contains(text, c.Original) {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: strings.Replace(text, c.Original, c.Replacement, 1)})
}

// Ask answers a question about the document without changing it.
func (s *Service) Ask(ctx context.Context, ws *workspace.Workspace, question string, req Request) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", domain.ErrInvalidInstruction
	}
	var text string
	if err := ws.Do(func(doc *document.Document, _ *review.Arena) error {
		text = doc.Text()
		return nil
	}); err != nil {
		return "", err
	}
	answer, err := s.complete(ctx, askPrompt(question, text), req)
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func allInline(nodes []*html.Node) bool {
	for _, n := range nodes {
		if n.Type == html.ElementNode && document.IsBlock(n) {
			return false
		}
	}
	return len(document.Structural(nodes)) > 0
}
