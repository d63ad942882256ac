// Package completion runs prompts against a generation service with credential failover.
package completion

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/domain"
	logpkg "github.com/kailas-cloud/revisor/internal/logger"
	"github.com/kailas-cloud/revisor/internal/metrics"
)

// Observer is called once per failed attempt, before the next credential is tried.
type Observer func(domain.AttemptFailure)

// Service tries credentials in order until one succeeds.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// New creates a completion service.
func New(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, logger: logger}
}

// Complete returns the first successful completion of prompt.
// Credentials are tried once each, in order, with no backoff. Blank and
// repeated entries are skipped. Each failure is reported to onFail (may be nil)
// and to the attempt log in ctx, if any.
func (s *Service) Complete(
	ctx context.Context, prompt string, creds domain.Credentials, onFail Observer,
) (string, error) {
	creds = creds.Normalize()
	if len(creds) == 0 {
		return "", domain.ErrNoCredentials
	}

	attempts := domain.AttemptLogFromContext(ctx)
	log := logpkg.Or(ctx, s.logger)
	var last error
	for i, cred := range creds {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("complete: %w", err)
		}

		text, err := s.gen.Generate(ctx, cred, prompt)
		if err == nil {
			if i > 0 {
				log.Info("Completion succeeded after failover",
					zap.Int("attempt", i+1),
					zap.String("credential", domain.Redact(cred)),
				)
			}
			return text, nil
		}
		last = err

		f := domain.AttemptFailure{Attempt: i + 1, Reason: err.Error(), HasNext: i < len(creds)-1}
		outcome := "exhausted"
		if f.HasNext {
			outcome = "next"
		}
		metrics.GenerationFailoversTotal.WithLabelValues(outcome).Inc()
		log.Warn("Generation attempt failed",
			zap.Int("attempt", f.Attempt),
			zap.String("credential", domain.Redact(cred)),
			zap.Bool("has_next", f.HasNext),
			zap.Error(err),
		)
		attempts.Add(f)
		if onFail != nil {
			onFail(f)
		}

		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return "", fmt.Errorf("complete: %w", err)
		}
	}
	return "", domain.NewCredentialsExhausted(len(creds), last)
}
