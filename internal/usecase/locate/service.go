// Package locate maps instruction keywords to the document region they most likely target.
package locate

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/region"
	"github.com/kailas-cloud/revisor/internal/domain/review"
	"github.com/kailas-cloud/revisor/internal/metrics"
)

// DefaultThreshold is the minimum score a candidate must exceed.
const DefaultThreshold = 0.05

// Query is what the analysis step extracted from an instruction.
type Query struct {
	Keywords string
	Scope    region.Scope
	Global   bool
}

// Service selects regions by term similarity.
type Service struct {
	threshold float64
	logger    *zap.Logger
}

// New creates a locator. A non-positive threshold means DefaultThreshold.
func New(threshold float64, logger *zap.Logger) *Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{threshold: threshold, logger: logger}
}

type candidate struct {
	node  *html.Node
	score float64
}

// Locate returns the regions q points at, in document order.
// Without Global it returns exactly one region or domain.ErrNoMatch.
func (s *Service) Locate(doc *document.Document, q Query) ([]region.Region, error) {
	if strings.TrimSpace(q.Keywords) == "" {
		metrics.LocatorMatchesTotal.WithLabelValues("no_match").Inc()
		return nil, domain.ErrNoMatch
	}

	scored := s.score(doc, q.Keywords)
	kind := region.KindBlock
	if q.Scope == region.ScopeInline {
		kind = region.KindInline
	}

	var out []region.Region
	if q.Global {
		for _, c := range scored {
			if c.score <= s.threshold || coveredBy(out, c.node) {
				continue
			}
			out = append(out, s.build(kind, c, func(n *html.Node) bool { return overlaps(out, n) }))
		}
	} else {
		var best *candidate
		for i := range scored {
			if best == nil || scored[i].score > best.score {
				best = &scored[i]
			}
		}
		if best != nil && best.score > s.threshold {
			out = append(out, s.build(kind, *best, func(*html.Node) bool { return false }))
		}
	}

	if len(out) == 0 {
		metrics.LocatorMatchesTotal.WithLabelValues("no_match").Inc()
		return nil, domain.ErrNoMatch
	}
	metrics.LocatorMatchesTotal.WithLabelValues("match").Inc()
	s.logger.Debug("Located regions",
		zap.Int("regions", len(out)),
		zap.Float64("top_score", out[0].Score),
		zap.Bool("global", q.Global),
		zap.String("snippet", clip(out[0].Snippet(), snippetLogChars)),
	)
	return out, nil
}

func (s *Service) build(kind region.Kind, c candidate, claimed func(*html.Node) bool) region.Region {
	nodes := []*html.Node{c.node}
	if kind == region.KindBlock {
		nodes = expand(c.node, func(n *html.Node) bool { return claimed(n) || review.Occupied(n) })
		nodes = document.Span(nodes[0], nodes[len(nodes)-1])
	}
	r := region.New(kind, nodes)
	r.Score = c.score
	return r
}

// score rates every candidate node in document order. Nodes belonging to a
// pending review unit are never candidates.
func (s *Service) score(doc *document.Document, keywords string) []candidate {
	sc := newScorer(keywords)
	var out []candidate
	for c := doc.Root().FirstChild; c != nil; c = c.NextSibling {
		document.Walk(c, func(n *html.Node) bool {
			if isCandidate(n) && !review.Occupied(n) {
				out = append(out, candidate{node: n, score: sc.score(document.Text(n))})
			}
			return true
		})
	}
	return out
}

const snippetLogChars = 80

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func isCandidate(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return document.IsContentTag(n) || document.HasDirectText(n)
}

func coveredBy(regions []region.Region, n *html.Node) bool {
	for _, r := range regions {
		if r.Covers(n) {
			return true
		}
	}
	return false
}

// overlaps reports whether n is inside or contains a node of an earlier region.
func overlaps(regions []region.Region, n *html.Node) bool {
	if coveredBy(regions, n) {
		return true
	}
	for _, r := range regions {
		for _, rn := range r.Nodes {
			for p := rn.Parent; p != nil; p = p.Parent {
				if p == n {
					return true
				}
			}
		}
	}
	return false
}
