package domain

import (
	"context"
	"strings"
)

// KeyPrefix namespaces every key revisor writes to a shared store.
const KeyPrefix = "revisor:"

// Generator sends one prompt to a generation service using one credential.
// Implementations return the first candidate's text.
type Generator interface {
	Generate(ctx context.Context, credential, prompt string) (string, error)
}

// HealthChecker verifies generation provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Credentials is an ordered set of opaque credential strings.
type Credentials []string

// Normalize returns the set without blank or repeated entries, first occurrence wins.
func (c Credentials) Normalize() Credentials {
	out := make(Credentials, 0, len(c))
	seen := make(map[string]struct{}, len(c))
	for _, cred := range c {
		if strings.TrimSpace(cred) == "" {
			continue
		}
		if _, dup := seen[cred]; dup {
			continue
		}
		seen[cred] = struct{}{}
		out = append(out, cred)
	}
	return out
}

// Redact masks a credential down to its last four characters.
func Redact(credential string) string {
	if len(credential) <= 4 {
		return "****"
	}
	return "****" + credential[len(credential)-4:]
}
