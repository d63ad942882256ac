package revisor

import (
	"context"

	healthuc "github.com/kailas-cloud/revisor/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Healthy reports whether every configured component passed.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Health checks the completion cache and, when a health key is known,
// the generation provider.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
