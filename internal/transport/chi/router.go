package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/metrics"
)

// NewRouter wires the middleware stack, /metrics and the API routes.
func NewRouter(server *Server, apiKeys []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	server.Register(r)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}
