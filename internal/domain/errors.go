package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials signals an empty credential set; nothing was sent.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrAllCredentialsFailed signals that every credential attempt errored.
	ErrAllCredentialsFailed = errors.New("all credentials failed")
	// ErrGenerationProviderError signals a generation provider failure for one attempt.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrNoMatch signals that no region scored above the locator threshold.
	ErrNoMatch = errors.New("no matching region")
	// ErrMalformedOutput signals model output that could not be turned into usable data.
	ErrMalformedOutput = errors.New("malformed model output")
	// ErrNoChange signals a rewrite whose only differences are whitespace.
	ErrNoChange = errors.New("rewrite produced no change")
	// ErrInvalidInstruction signals an empty or unusable instruction.
	ErrInvalidInstruction = errors.New("invalid instruction")
	// ErrInvalidMarkup signals markup that could not be parsed.
	ErrInvalidMarkup = errors.New("invalid markup")

	// ErrRunInProgress signals that another edit run holds the workspace.
	ErrRunInProgress = errors.New("edit run in progress")
	// ErrWorkspaceNotFound signals a missing workspace.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrWorkspaceLimit signals that no more workspaces can be opened.
	ErrWorkspaceLimit = errors.New("workspace limit reached")
	// ErrUnitNotFound signals a missing or already resolved review unit.
	ErrUnitNotFound = errors.New("review unit not found")
	// ErrInvalidTransition signals a review transition not allowed from the unit's state.
	ErrInvalidTransition = errors.New("invalid review transition")
)

// CredentialsExhaustedError wraps ErrAllCredentialsFailed with the last underlying failure.
type CredentialsExhaustedError struct {
	Attempts int
	Last     error
}

func (e *CredentialsExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s after %d attempts", ErrAllCredentialsFailed.Error(), e.Attempts)
	}
	return fmt.Sprintf("%s after %d attempts: %s", ErrAllCredentialsFailed.Error(), e.Attempts, e.Last.Error())
}

func (e *CredentialsExhaustedError) Unwrap() error { return ErrAllCredentialsFailed }

// NewCredentialsExhausted creates an exhausted-credentials error.
func NewCredentialsExhausted(attempts int, last error) error {
	return &CredentialsExhaustedError{Attempts: attempts, Last: last}
}

// TransitionError wraps ErrInvalidTransition with the attempted action and current state.
type TransitionError struct {
	Action string
	State  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s a %s unit", ErrInvalidTransition.Error(), e.Action, e.State)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
