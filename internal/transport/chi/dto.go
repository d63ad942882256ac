package chi

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/diff"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/review"
	domws "github.com/kailas-cloud/revisor/internal/domain/workspace"
	edituc "github.com/kailas-cloud/revisor/internal/usecase/edit"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeWorkspaceNotFound  ErrorCode = "workspace_not_found"
	CodeUnitNotFound       ErrorCode = "unit_not_found"
	CodeInvalidTransition  ErrorCode = "invalid_transition"
	CodeRunInProgress      ErrorCode = "run_in_progress"
	CodeInvalidMarkup      ErrorCode = "invalid_markup"
	CodeInvalidInstruction ErrorCode = "invalid_instruction"
	CodeWorkspaceLimit     ErrorCode = "workspace_limit"
	CodeNoCredentials      ErrorCode = "no_credentials"
	CodeGenerationFailed   ErrorCode = "generation_failed"
	CodeMalformedOutput    ErrorCode = "malformed_output"
	CodeTimeout            ErrorCode = "timeout"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DocumentRequest opens or replaces a document.
type DocumentRequest struct {
	Markup string `json:"markup"`
}

// Validate checks the request.
func (r DocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Markup, validation.Length(0, document.MaxMarkupSize)),
	)
}

// EditRequest runs an instruction.
type EditRequest struct {
	Instruction string   `json:"instruction"`
	Mode        string   `json:"mode,omitempty"`
	Selection   string   `json:"selection,omitempty"`
	FileName    string   `json:"file_name,omitempty"`
	Credentials []string `json:"credentials,omitempty"`
}

// Validate checks the request.
func (r EditRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Instruction, validation.Required, validation.Length(1, 8000)),
		validation.Field(&r.Mode, validation.In(edituc.ModeLocate, edituc.ModeReplace)),
		validation.Field(&r.Credentials, validation.Length(0, 32)),
	)
}

// AskRequest asks a question about a document.
type AskRequest struct {
	Question    string   `json:"question"`
	Credentials []string `json:"credentials,omitempty"`
}

// Validate checks the request.
func (r AskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Question, validation.Required, validation.Length(1, 8000)),
		validation.Field(&r.Credentials, validation.Length(0, 32)),
	)
}

// DocumentResponse describes a workspace.
type DocumentResponse struct {
	ID        string         `json:"id"`
	Markup    string         `json:"markup"`
	Units     []UnitResponse `json:"units"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// UnitResponse describes a review unit.
type UnitResponse struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	State       string      `json:"state"`
	Original    string      `json:"original"`
	Replacement string      `json:"replacement"`
	Annotated   string      `json:"annotated"`
	Deleted     int         `json:"deleted"`
	Inserted    int         `json:"inserted"`
	Preview     []diff.Line `json:"preview,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AnalysisResponse echoes the instruction analysis.
type AnalysisResponse struct {
	Keywords string `json:"keywords"`
	Scope    string `json:"scope"`
	Global   bool   `json:"global"`
	Fallback bool   `json:"fallback"`
}

// AttemptFailureResponse reports one failed credential attempt.
type AttemptFailureResponse struct {
	Attempt int    `json:"attempt"`
	Reason  string `json:"reason"`
	HasNext bool   `json:"has_next"`
}

// EditResponse summarizes an edit run.
type EditResponse struct {
	Applied         int                      `json:"applied"`
	Failed          int                      `json:"failed"`
	Unchanged       int                      `json:"unchanged"`
	Skipped         int                      `json:"skipped"`
	WholeDocument   bool                     `json:"whole_document"`
	Message         string                   `json:"message"`
	Analysis        *AnalysisResponse        `json:"analysis,omitempty"`
	Units           []UnitResponse           `json:"units"`
	Markup          string                   `json:"markup"`
	AttemptFailures []AttemptFailureResponse `json:"attempt_failures,omitempty"`
}

// AskResponse carries the model's answer.
type AskResponse struct {
	Answer          string                   `json:"answer"`
	AttemptFailures []AttemptFailureResponse `json:"attempt_failures,omitempty"`
}

// ReviewResponse is returned by single-unit transitions.
type ReviewResponse struct {
	Unit   UnitResponse `json:"unit"`
	Markup string       `json:"markup"`
}

// BulkReviewResponse is returned by accept-all and reject-all.
type BulkReviewResponse struct {
	Units  []UnitResponse `json:"units"`
	Markup string         `json:"markup"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToResponse(ws *domws.Workspace) DocumentResponse {
	markup, units, updatedAt := ws.Snapshot()
	return DocumentResponse{
		ID:        ws.ID(),
		Markup:    markup,
		Units:     unitsToResponse(units),
		CreatedAt: ws.CreatedAt().UTC(),
		UpdatedAt: updatedAt.UTC(),
	}
}

func unitToResponse(u review.Unit) UnitResponse {
	return UnitResponse{
		ID:          u.ID,
		Kind:        string(u.Kind),
		State:       string(u.State),
		Original:    u.Original,
		Replacement: u.Replacement,
		Annotated:   u.Annotated,
		Deleted:     u.Deleted,
		Inserted:    u.Inserted,
		Preview:     u.Preview,
		CreatedAt:   u.CreatedAt.UTC(),
	}
}

func unitsToResponse(units []review.Unit) []UnitResponse {
	out := make([]UnitResponse, len(units))
	for i, u := range units {
		out[i] = unitToResponse(u)
	}
	return out
}

func outcomeToResponse(out edituc.Outcome, markup string, failures []domain.AttemptFailure) EditResponse {
	resp := EditResponse{
		Applied:         out.Applied,
		Failed:          out.Failed,
		Unchanged:       out.Unchanged,
		Skipped:         out.Skipped,
		WholeDocument:   out.WholeDocument,
		Message:         out.Message,
		Units:           unitsToResponse(out.Units),
		Markup:          markup,
		AttemptFailures: failuresToResponse(failures),
	}
	if out.Analysis.Keywords != "" || out.Analysis.Fallback {
		resp.Analysis = &AnalysisResponse{
			Keywords: out.Analysis.Keywords,
			Scope:    string(out.Analysis.Scope),
			Global:   out.Analysis.Global,
			Fallback: out.Analysis.Fallback,
		}
	}
	return resp
}

func failuresToResponse(failures []domain.AttemptFailure) []AttemptFailureResponse {
	if len(failures) == 0 {
		return nil
	}
	out := make([]AttemptFailureResponse, len(failures))
	for i, f := range failures {
		out[i] = AttemptFailureResponse{Attempt: f.Attempt, Reason: f.Reason, HasNext: f.HasNext}
	}
	return out
}
