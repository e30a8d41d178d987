// Package api serves the quotation assistant and catalog over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/rs/zerolog/log"
)

const problemTypeBase = "https://iphall.example/errors/"

// ProblemDetail is an RFC 7807 error body.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"trace_id,omitempty"`
}

func (p *ProblemDetail) Error() string {
	return fmt.Sprintf("%s: %s", p.Title, p.Detail)
}

// WriteError writes a problem response enriched with the request path and request id.
func WriteError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	problem := &ProblemDetail{
		Type:    fmt.Sprintf("%s%d", problemTypeBase, status),
		Title:   http.StatusText(status),
		Status:  status,
		Detail:  detail,
		TraceID: w.Header().Get(RequestIDHeader),
	}
	if r != nil {
		problem.Instance = r.URL.Path
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}

func WriteTooManyRequests(w http.ResponseWriter, r *http.Request, retryAfterSecs int) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfterSecs))
	WriteError(w, r, http.StatusTooManyRequests, "Rate limit exceeded. Retry after the specified interval.")
}

// WriteInternal logs err and answers 500 without exposing it.
func WriteInternal(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("request_id", w.Header().Get(RequestIDHeader)).Msg("internal server error")
	WriteError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
}

// WriteDomainError maps workflow and catalog sentinels to HTTP statuses.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, contractx.ErrNotFound), errors.Is(err, contractx.ErrItemResolution):
		WriteError(w, r, http.StatusNotFound, "The requested catalog entry does not exist.")
	case errors.Is(err, contractx.ErrValidation), errors.Is(err, contractx.ErrMixedCurrency):
		WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, contractx.ErrCatalogUnavailable), errors.Is(err, contractx.ErrDocumentGeneration):
		log.Error().Err(err).Str("request_id", w.Header().Get(RequestIDHeader)).Msg("upstream unavailable")
		WriteError(w, r, http.StatusServiceUnavailable, "The quotation catalog is temporarily unavailable.")
	default:
		WriteInternal(w, r, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("encode response body")
	}
}
