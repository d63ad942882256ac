package health

import "context"

// CachePinger checks completion cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// GenerationChecker checks generation provider availability.
type GenerationChecker interface {
	HealthCheck(ctx context.Context) error
}
