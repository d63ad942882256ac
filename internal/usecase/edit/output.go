package edit

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/region"
)

// NormalizeMarkup strips a surrounding code fence from model output.
// Empty output is domain.ErrMalformedOutput.
func NormalizeMarkup(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if start := strings.Index(s, "```"); start >= 0 {
		body := s[start+3:]
		// Drop the info string (```html).
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		} else {
			body = ""
		}
		if end := strings.LastIndex(body, "```"); end >= 0 {
			body = body[:end]
		}
		s = strings.TrimSpace(body)
	}
	if s == "" {
		return "", fmt.Errorf("%w: empty rewrite", domain.ErrMalformedOutput)
	}
	return s, nil
}

// Analysis is the structured reading of an instruction.
type Analysis struct {
	Keywords string       `json:"keywords"`
	Scope    region.Scope `json:"scope"`
	Global   bool         `json:"is_global"`
	// Fallback is set when the model output could not be used.
	Fallback bool `json:"fallback"`
}

// parseAnalysis extracts the analysis object from raw model output.
func parseAnalysis(raw string) (Analysis, error) {
	obj := extract(raw, '{', '}')
	if obj == "" || !gjson.Valid(obj) {
		return Analysis{}, fmt.Errorf("%w: no analysis object", domain.ErrMalformedOutput)
	}
	res := gjson.Parse(obj)
	kw := strings.TrimSpace(res.Get("keywords").String())
	if kw == "" {
		return Analysis{}, fmt.Errorf("%w: analysis has no keywords", domain.ErrMalformedOutput)
	}
	global := res.Get("isGlobal")
	if !global.Exists() {
		global = res.Get("is_global")
	}
	return Analysis{
		Keywords: kw,
		Scope:    region.ParseScope(res.Get("scope").String()),
		Global:   global.Bool(),
	}, nil
}

// fallbackAnalysis treats the instruction itself as the keyword string.
func fallbackAnalysis(instruction string) Analysis {
	return Analysis{Keywords: instruction, Scope: region.ScopeBlock, Fallback: true}
}

// Change is one structured replacement.
type Change struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// parseChanges extracts the change array from raw model output.
// A single object is accepted as a one-element array.
func parseChanges(raw string) ([]Change, error) {
	arr := extract(raw, '[', ']')
	if arr == "" || !gjson.Valid(arr) {
		obj := extract(raw, '{', '}')
		if obj == "" || !gjson.Valid(obj) {
			return nil, fmt.Errorf("%w: no change array", domain.ErrMalformedOutput)
		}
		arr = "[" + obj + "]"
	}

	var out []Change
	for _, item := range gjson.Parse(arr).Array() {
		c := Change{
			Original:    stripNewlines(item.Get("original").String()),
			Replacement: stripNewlines(item.Get("replacement").String()),
		}
		if c.Original == "" || c.Original == c.Replacement {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// extract returns the outermost open..close span of s, or "".
func extract(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

var newlines = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

func stripNewlines(s string) string { return newlines.Replace(s) }
