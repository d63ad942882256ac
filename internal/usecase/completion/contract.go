package completion

import "context"

// Generator sends one prompt with one credential.
type Generator interface {
	Generate(ctx context.Context, credential, prompt string) (string, error)
}
