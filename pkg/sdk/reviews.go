package revisor

import (
	"context"
	"fmt"
	"time"

	domreview "github.com/kailas-cloud/revisor/internal/domain/review"
)

// Reviews lists pending units in document order.
func (d *Document) Reviews(ctx context.Context) ([]Unit, error) {
	units, err := d.client.reviewSvc.List(ctx, d.id)
	if err != nil {
		return nil, fmt.Errorf("list reviews %s: %w", d.id, err)
	}
	return fromUnits(units), nil
}

// Review returns one pending unit.
func (d *Document) Review(ctx context.Context, unitID string) (Unit, error) {
	u, err := d.client.reviewSvc.Get(ctx, d.id, unitID)
	if err != nil {
		return Unit{}, fmt.Errorf("get review %s: %w", unitID, err)
	}
	return fromUnit(u), nil
}

// Show reveals a hidden unit's diff so it can be decided.
func (d *Document) Show(ctx context.Context, unitID string) (Unit, error) {
	return d.transition(ctx, "show", unitID, d.client.reviewSvc.Show)
}

// Accept keeps a shown unit's replacement.
func (d *Document) Accept(ctx context.Context, unitID string) (Unit, error) {
	return d.transition(ctx, "accept", unitID, d.client.reviewSvc.Accept)
}

// Reject restores a shown unit's original content.
func (d *Document) Reject(ctx context.Context, unitID string) (Unit, error) {
	return d.transition(ctx, "reject", unitID, d.client.reviewSvc.Reject)
}

// AcceptAll accepts every pending unit, hidden ones included.
func (d *Document) AcceptAll(ctx context.Context) ([]Unit, error) {
	return d.bulk(ctx, "accept_all", d.client.reviewSvc.AcceptAll)
}

// RejectAll rejects every pending unit, hidden ones included.
func (d *Document) RejectAll(ctx context.Context) ([]Unit, error) {
	return d.bulk(ctx, "reject_all", d.client.reviewSvc.RejectAll)
}

func (d *Document) transition(
	ctx context.Context, op, unitID string,
	fn func(ctx context.Context, wsID, unitID string) (domreview.Unit, error),
) (_ Unit, err error) {
	start := time.Now()
	defer func() { d.client.obs.observe(op, d.id, start, err) }()

	u, err := fn(ctx, d.id, unitID)
	if err != nil {
		return Unit{}, fmt.Errorf("%s %s: %w", op, unitID, err)
	}
	d.countResolved(u)
	return fromUnit(u), nil
}

func (d *Document) bulk(
	ctx context.Context, op string,
	fn func(ctx context.Context, wsID string) ([]domreview.Unit, error),
) (_ []Unit, err error) {
	start := time.Now()
	defer func() { d.client.obs.observe(op, d.id, start, err) }()

	units, err := fn(ctx, d.id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, d.id, err)
	}
	for _, u := range units {
		d.countResolved(u)
	}
	return fromUnits(units), nil
}

func (d *Document) countResolved(u domreview.Unit) {
	switch u.State {
	case domreview.StateAccepted:
		d.client.obs.unitEvents("accepted", 1)
	case domreview.StateRejected:
		d.client.obs.unitEvents("rejected", 1)
	}
}
