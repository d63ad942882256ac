package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/revisor/internal/domain/diff"
	"github.com/kailas-cloud/revisor/internal/domain/document"
)

// input is one side of a diff: its plain text and its top-level blocks.
type input struct {
	text   string
	blocks []string
}

func diffFiles(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		return fmt.Errorf("diff needs exactly two files, got %d", cmd.NArg())
	}
	before, err := readInput(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	after, err := readInput(cmd.Args().Get(1))
	if err != nil {
		return err
	}
	return writeDiff(cmd.Root().Writer, cmd.String("format"), before, after)
}

func writeDiff(w io.Writer, format string, before, after input) error {
	switch format {
	case "html":
		_, err := fmt.Fprintln(w, diff.Compute(before.text, after.text).HTML())
		return err
	case "blocks":
		return writeBlocks(w, diff.PairTexts(before.blocks, after.blocks))
	case "lines":
		lines, truncated := diff.Lines(before.text, after.text)
		if truncated {
			_, err := fmt.Fprintln(w, "(diff too large to preview)")
			return err
		}
		for _, l := range lines {
			if _, err := fmt.Fprintf(w, "%s %s\n", linePrefix(l.Type), l.Text); err != nil {
				return err
			}
		}
		return nil
	case "stats":
		deleted, inserted := diff.Compute(before.text, after.text).Stats()
		_, err := fmt.Fprintf(w, "deleted: %d\ninserted: %d\n", deleted, inserted)
		return err
	default:
		return fmt.Errorf("unknown format %q (html, blocks, lines, stats)", format)
	}
}

// writeBlocks prints each changed block pair, numbered from 1.
func writeBlocks(w io.Writer, pairs []diff.Pair) error {
	if !diff.AnyChange(pairs) {
		_, err := fmt.Fprintln(w, "no changes")
		return err
	}
	for i, p := range pairs {
		if !p.Result.HasChange() {
			continue
		}
		tag := "~"
		switch {
		case p.PureInsertion():
			tag = "+"
		case p.PureDeletion():
			tag = "-"
		}
		if _, err := fmt.Fprintf(w, "%s%d: %s\n", tag, i+1, p.Result.HTML()); err != nil {
			return err
		}
	}
	return nil
}

func linePrefix(t string) string {
	switch t {
	case diff.LineAdded:
		return "+"
	case diff.LineRemoved:
		return "-"
	default:
		return " "
	}
}

// readInput loads a file. HTML files are reduced to text and split into
// their structural blocks; other files split on blank lines.
func readInput(path string) (input, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return input{}, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		doc, err := document.Parse(string(data))
		if err != nil {
			return input{}, fmt.Errorf("parse %s: %w", path, err)
		}
		var blocks []string
		for _, n := range doc.Blocks() {
			blocks = append(blocks, document.Text(n))
		}
		return input{text: doc.Text(), blocks: blocks}, nil
	}
	return textInput(string(data)), nil
}

func textInput(s string) input {
	var blocks []string
	for _, para := range strings.Split(s, "\n\n") {
		if strings.TrimSpace(para) != "" {
			blocks = append(blocks, strings.TrimSpace(para))
		}
	}
	return input{text: s, blocks: blocks}
}
