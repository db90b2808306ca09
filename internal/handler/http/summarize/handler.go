package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"extractive-summarizer/internal/domain/entity"
	"extractive-summarizer/internal/handler/http/respond"
	"extractive-summarizer/internal/infra/scorer"
	"extractive-summarizer/internal/observability/logging"
	sumUC "extractive-summarizer/internal/usecase/summarize"
)

// statusClientClosedRequest is logged when the caller went away mid-request.
const statusClientClosedRequest = 499

// Service is the pipeline behind the handler.
type Service interface {
	Summarize(ctx context.Context, req entity.SummarizeRequest) (*entity.SummarizeResult, error)
}

// Handler serves POST /summarize.
type Handler struct{ Svc Service }

// ServeHTTP decodes the request, runs the pipeline and writes the summary.
//
//	200 {"summary": "..."}
//	400 malformed JSON, wrong field types or unknown format
//	413 body over the configured limit
//	501 html input without an extractor
//	502 scorer failure
//	503 scorer circuit open
//	504 scorer or request timeout
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	start := time.Now()

	req, err := decode(r.Body)
	if err != nil {
		respond.Fail(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.Summarize(r.Context(), entity.SummarizeRequest{
		Text:      req.Text,
		TopK:      req.TopK,
		Threshold: req.Threshold,
		Format:    entity.InputFormat(req.Format),
	})
	if err != nil {
		respond.Fail(w, r, http.StatusInternalServerError, classify(err))
		return
	}

	logger.Debug("summarize completed",
		slog.Int("sentences", len(result.Sentences)),
		slog.Int("selected", len(result.Selected)),
		slog.Bool("threshold_fallback", result.FellBack),
		slog.Duration("duration", time.Since(start)))

	respond.JSON(w, http.StatusOK, toResponse(result, req.Debug))
}

// decode reads the JSON body. Decoding errors become AppErrors whose user
// message never echoes Go type names.
func decode(body io.Reader) (Request, error) {
	var req Request
	err := json.NewDecoder(body).Decode(&req)
	if err == nil {
		return req, nil
	}

	var (
		maxBytesErr  *http.MaxBytesError
		typeErr      *json.UnmarshalTypeError
		syntaxErr    *json.SyntaxError
		userMessage  = "invalid JSON body"
		responseCode = http.StatusBadRequest
	)
	switch {
	case errors.As(err, &maxBytesErr):
		userMessage = "request body too large"
		responseCode = http.StatusRequestEntityTooLarge
	case errors.As(err, &typeErr):
		userMessage = fmt.Sprintf("invalid type for field %q", typeErr.Field)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		userMessage = "invalid JSON body"
	case errors.Is(err, io.EOF):
		userMessage = "request body is required"
	}
	return req, respond.NewAppError(responseCode, userMessage, err)
}

// classify maps pipeline errors onto HTTP responses.
func classify(err error) error {
	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return respond.NewAppError(http.StatusBadRequest, validationErr.Error(), nil)
	case errors.Is(err, sumUC.ErrHTMLUnsupported):
		return respond.NewAppError(http.StatusNotImplemented, "html input is not supported", nil)
	case errors.Is(err, context.Canceled):
		return respond.NewAppError(statusClientClosedRequest, "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, scorer.ErrTimeout):
		return respond.NewAppError(http.StatusGatewayTimeout, "scorer timed out", err)
	case errors.Is(err, scorer.ErrCircuitOpen):
		return respond.NewAppError(http.StatusServiceUnavailable, "scorer temporarily unavailable", err)
	case errors.Is(err, entity.ErrScorerFailure):
		return respond.NewAppError(http.StatusBadGateway, "scorer failed", err)
	default:
		return err
	}
}

func toResponse(result *entity.SummarizeResult, debug bool) Response {
	resp := Response{Summary: result.Summary}
	if debug {
		resp.Sentences = entity.Texts(result.Sentences)
		resp.Selected = result.Selected
		resp.Scores = result.Scores
	}
	return resp
}
