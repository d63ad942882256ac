package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/domain"
	domreview "github.com/kailas-cloud/revisor/internal/domain/review"
	edituc "github.com/kailas-cloud/revisor/internal/usecase/edit"
	healthuc "github.com/kailas-cloud/revisor/internal/usecase/health"
	reviewuc "github.com/kailas-cloud/revisor/internal/usecase/review"
	workspaceuc "github.com/kailas-cloud/revisor/internal/usecase/workspace"
)

// maxBodyBytes bounds request bodies; markup dominates.
const maxBodyBytes = 8 << 20

// Server serves the document editing API.
type Server struct {
	workspaces    *workspaceuc.Service
	edits         *edituc.Service
	reviews       *reviewuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	workspaces *workspaceuc.Service,
	edits *edituc.Service,
	reviews *reviewuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		workspaces: workspaces,
		edits:      edits,
		reviews:    reviews,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = defaultErrorHandlers()
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", s.CreateDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetDocument)
			r.Put("/", s.ReplaceDocument)
			r.Delete("/", s.DeleteDocument)
			r.Post("/edits", s.RunEdit)
			r.Post("/ask", s.Ask)
			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", s.ListReviews)
				r.Post("/accept-all", s.AcceptAll)
				r.Post("/reject-all", s.RejectAll)
				r.Get("/{unit}", s.GetReview)
				r.Post("/{unit}/show", s.ShowReview)
				r.Post("/{unit}/accept", s.AcceptReview)
				r.Post("/{unit}/reject", s.RejectReview)
			})
		})
	})
}

// CreateDocument handles POST /documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if !s.decode(w, r, &req) {
		return
	}

	ws, err := s.workspaces.Open(r.Context(), req.Markup)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/documents/"+ws.ID())
	writeJSON(w, http.StatusCreated, documentToResponse(ws))
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspaces.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(ws))
}

// ReplaceDocument handles PUT /documents/{id}.
func (s *Server) ReplaceDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if !s.decode(w, r, &req) {
		return
	}

	ws, err := s.workspaces.Replace(r.Context(), chi.URLParam(r, "id"), req.Markup)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(ws))
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.workspaces.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunEdit handles POST /documents/{id}/edits.
func (s *Server) RunEdit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if !s.decode(w, r, &req) {
		return
	}

	ws, err := s.workspaces.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx, attempts := domain.NewContextWithAttemptLog(r.Context())
	editReq := edituc.Request{
		Instruction: req.Instruction,
		Selection:   req.Selection,
		FileName:    req.FileName,
		Credentials: req.Credentials,
	}

	var out edituc.Outcome
	if req.Mode == edituc.ModeReplace {
		out, err = s.edits.Replace(ctx, ws, editReq)
	} else {
		out, err = s.edits.Edit(ctx, ws, editReq)
	}
	setFailoverHeader(w, attempts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	markup, _, _ := ws.Snapshot()
	writeJSON(w, http.StatusOK, outcomeToResponse(out, markup, attempts.Failures()))
}

// Ask handles POST /documents/{id}/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !s.decode(w, r, &req) {
		return
	}

	ws, err := s.workspaces.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx, attempts := domain.NewContextWithAttemptLog(r.Context())
	answer, err := s.edits.Ask(ctx, ws, req.Question, edituc.Request{Credentials: req.Credentials})
	setFailoverHeader(w, attempts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Answer:          answer,
		AttemptFailures: failuresToResponse(attempts.Failures()),
	})
}

// ListReviews handles GET /documents/{id}/reviews.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	units, err := s.reviews.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unitsToResponse(units))
}

// GetReview handles GET /documents/{id}/reviews/{unit}.
func (s *Server) GetReview(w http.ResponseWriter, r *http.Request) {
	u, err := s.reviews.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "unit"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unitToResponse(u))
}

// ShowReview handles POST /documents/{id}/reviews/{unit}/show.
func (s *Server) ShowReview(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.reviews.Show)
}

// AcceptReview handles POST /documents/{id}/reviews/{unit}/accept.
func (s *Server) AcceptReview(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.reviews.Accept)
}

// RejectReview handles POST /documents/{id}/reviews/{unit}/reject.
func (s *Server) RejectReview(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.reviews.Reject)
}

// AcceptAll handles POST /documents/{id}/reviews/accept-all.
func (s *Server) AcceptAll(w http.ResponseWriter, r *http.Request) {
	s.bulk(w, r, s.reviews.AcceptAll)
}

// RejectAll handles POST /documents/{id}/reviews/reject-all.
func (s *Server) RejectAll(w http.ResponseWriter, r *http.Request) {
	s.bulk(w, r, s.reviews.RejectAll)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, wsID, unitID string) (domreview.Unit, error),
) {
	wsID := chi.URLParam(r, "id")
	u, err := fn(r.Context(), wsID, chi.URLParam(r, "unit"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReviewResponse{Unit: unitToResponse(u), Markup: s.markup(r, wsID)})
}

func (s *Server) bulk(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, wsID string) ([]domreview.Unit, error),
) {
	wsID := chi.URLParam(r, "id")
	units, err := fn(r.Context(), wsID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BulkReviewResponse{Units: unitsToResponse(units), Markup: s.markup(r, wsID)})
}

func (s *Server) markup(r *http.Request, wsID string) string {
	ws, err := s.workspaces.Get(r.Context(), wsID)
	if err != nil {
		return ""
	}
	m, _, _ := ws.Snapshot()
	return m
}

// decode reads and validates a JSON body. Writes the error response and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{ Validate() error }) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := v.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return false
	}
	return true
}

func setFailoverHeader(w http.ResponseWriter, attempts *domain.AttemptLog) {
	if n := len(attempts.Failures()); n > 0 {
		w.Header().Set("X-Generation-Failovers", strconv.Itoa(n))
	}
}
