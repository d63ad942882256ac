package revisor

import (
	"context"
	"fmt"
)

// Generator sends one prompt to a text generation service with one credential
// and returns the model's text. Plug in any provider with WithGenerator.
type Generator interface {
	Generate(ctx context.Context, credential, prompt string) (string, error)
}

// generatorAdapter marks failures from a user generator as provider errors
// so credential failover treats them like the built-in providers.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, credential, prompt string) (string, error) {
	text, err := a.inner.Generate(ctx, credential, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", ErrGenerationProviderError, err)
	}
	return text, nil
}
