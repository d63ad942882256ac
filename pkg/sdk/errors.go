package revisor

import "github.com/kailas-cloud/revisor/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNoCredentials           = domain.ErrNoCredentials
	ErrAllCredentialsFailed    = domain.ErrAllCredentialsFailed
	ErrGenerationProviderError = domain.ErrGenerationProviderError
	ErrMalformedOutput         = domain.ErrMalformedOutput
	ErrInvalidInstruction      = domain.ErrInvalidInstruction
	ErrInvalidMarkup           = domain.ErrInvalidMarkup
	ErrRunInProgress           = domain.ErrRunInProgress
	ErrDocumentNotFound        = domain.ErrWorkspaceNotFound
	ErrDocumentLimit           = domain.ErrWorkspaceLimit
	ErrUnitNotFound            = domain.ErrUnitNotFound
	ErrInvalidTransition       = domain.ErrInvalidTransition
)
