package revisor

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/revisor/internal/domain"
	edituc "github.com/kailas-cloud/revisor/internal/usecase/edit"
)

// Document is a handle to one open document.
type Document struct {
	id     string
	client *Client
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Info returns the current markup and pending unit count.
func (d *Document) Info(ctx context.Context) (DocumentInfo, error) {
	ws, err := d.client.workspaceSvc.Get(ctx, d.id)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("get document %s: %w", d.id, err)
	}
	return documentInfo(ws), nil
}

// Markup returns the live markup, including mounted review units.
func (d *Document) Markup(ctx context.Context) (string, error) {
	info, err := d.Info(ctx)
	if err != nil {
		return "", err
	}
	return info.Markup, nil
}

// SetMarkup replaces the document content and drops every pending unit.
func (d *Document) SetMarkup(ctx context.Context, markup string) (err error) {
	start := time.Now()
	defer func() { d.client.obs.observe("set_markup", d.id, start, err) }()

	if _, err = d.client.workspaceSvc.Replace(ctx, d.id, markup); err != nil {
		return fmt.Errorf("set markup %s: %w", d.id, err)
	}
	return nil
}

// Close discards the document.
func (d *Document) Close(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { d.client.obs.observe("close", d.id, start, err) }()

	if err = d.client.workspaceSvc.Close(ctx, d.id); err != nil {
		return fmt.Errorf("close document %s: %w", d.id, err)
	}
	return nil
}

// Edit runs an instruction and mounts each rewrite as a hidden review unit.
func (d *Document) Edit(ctx context.Context, instruction string, opts ...EditOption) (_ EditResult, err error) {
	cfg := applyEditOptions(opts)
	op := "edit"
	if cfg.replace {
		op = "replace"
	}
	start := time.Now()
	defer func() { d.client.obs.observe(op, d.id, start, err) }()

	ws, err := d.client.workspaceSvc.Get(ctx, d.id)
	if err != nil {
		return EditResult{}, fmt.Errorf("edit %s: %w", d.id, err)
	}

	ctx, attempts := domain.NewContextWithAttemptLog(ctx)
	req := edituc.Request{
		Instruction: instruction,
		Selection:   cfg.selection,
		FileName:    cfg.fileName,
		Credentials: cfg.credentials,
	}
	var out edituc.Outcome
	if cfg.replace {
		out, err = d.client.editSvc.Replace(ctx, ws, req)
	} else {
		out, err = d.client.editSvc.Edit(ctx, ws, req)
	}
	if err != nil {
		return EditResult{}, fmt.Errorf("edit %s: %w", d.id, err)
	}
	d.client.obs.unitEvents("mounted", out.Applied)
	return fromOutcome(out, attempts.Failures()), nil
}

// Ask answers a question about the document without changing it.
func (d *Document) Ask(ctx context.Context, question string, opts ...EditOption) (_ Answer, err error) {
	cfg := applyEditOptions(opts)
	start := time.Now()
	defer func() { d.client.obs.observe("ask", d.id, start, err) }()

	ws, err := d.client.workspaceSvc.Get(ctx, d.id)
	if err != nil {
		return Answer{}, fmt.Errorf("ask %s: %w", d.id, err)
	}
	ctx, attempts := domain.NewContextWithAttemptLog(ctx)
	text, err := d.client.editSvc.Ask(ctx, ws, question, edituc.Request{Credentials: cfg.credentials})
	if err != nil {
		return Answer{}, fmt.Errorf("ask %s: %w", d.id, err)
	}
	return Answer{Text: text, Failures: fromFailures(attempts.Failures())}, nil
}
