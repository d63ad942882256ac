package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/domain"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		transitionHandler,
		sentinelHandler(domain.ErrWorkspaceNotFound, http.StatusNotFound, CodeWorkspaceNotFound),
		sentinelHandler(domain.ErrUnitNotFound, http.StatusNotFound, CodeUnitNotFound),
		sentinelHandler(domain.ErrRunInProgress, http.StatusConflict, CodeRunInProgress),
		sentinelHandler(domain.ErrInvalidMarkup, http.StatusBadRequest, CodeInvalidMarkup),
		sentinelHandler(domain.ErrInvalidInstruction, http.StatusBadRequest, CodeInvalidInstruction),
		sentinelHandler(domain.ErrWorkspaceLimit, http.StatusTooManyRequests, CodeWorkspaceLimit),
		sentinelHandler(domain.ErrNoCredentials, http.StatusServiceUnavailable, CodeNoCredentials),
		sentinelHandler(domain.ErrAllCredentialsFailed, http.StatusBadGateway, CodeGenerationFailed),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, CodeGenerationFailed),
		sentinelHandler(domain.ErrMalformedOutput, http.StatusBadGateway, CodeMalformedOutput),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout),
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrWorkspaceNotFound,
		domain.ErrUnitNotFound,
		domain.ErrInvalidTransition,
		domain.ErrRunInProgress,
		domain.ErrInvalidMarkup,
		domain.ErrInvalidInstruction,
		domain.ErrWorkspaceLimit,
		domain.ErrNoCredentials,
		domain.ErrAllCredentialsFailed,
		domain.ErrGenerationProviderError,
		domain.ErrMalformedOutput,
		context.DeadlineExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// transitionHandler handles ErrInvalidTransition with the unit's current state.
func transitionHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidTransition) {
		return false
	}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"code":    CodeInvalidTransition,
			"message": te.Error(),
			"state":   te.State,
		})
		return true
	}
	writeError(w, http.StatusConflict, CodeInvalidTransition, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
