package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the cache is down; edits still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the generation provider is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache      CachePinger
	generation GenerationChecker
}

// New creates a Service. Either component can be nil.
func New(cache CachePinger, generation GenerationChecker) *Service {
	return &Service{cache: cache, generation: generation}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
			status = Degraded
		} else {
			checks["cache"] = CheckOK
		}
	}

	if s.generation != nil {
		if err := s.generation.HealthCheck(ctx); err != nil {
			checks["generation"] = CheckError
			status = Unhealthy
		} else {
			checks["generation"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
