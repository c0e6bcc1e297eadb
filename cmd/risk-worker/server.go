// cmd/risk-worker/server.go
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/models"
	acr "credit-risk-workers/internal/workers/credit/assess-credit-risk"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 64 << 10

// Assessor is the part of the assess-credit-risk worker the HTTP API uses.
type Assessor interface {
	Execute(ctx context.Context, input *acr.Input) (*acr.Output, error)
}

// readinessCheck reports whether a dependency can serve traffic.
type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

type server struct {
	assessor Assessor
	checks   []readinessCheck
	logger   logger.Logger
	metrics  http.Handler
}

func newServer(assessor Assessor, log logger.Logger, checks ...readinessCheck) *server {
	return &server{
		assessor: assessor,
		checks:   checks,
		logger:   log,
		metrics:  promhttp.Handler(),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", s.metrics)
	mux.HandleFunc("POST /v1/assessments", s.handleAssess)
	return mux
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for _, c := range s.checks {
		if err := c.check(ctx); err != nil {
			failed[c.name] = err.Error()
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"failed": failed,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

type errorBody struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Fields  []validation.ValidationError `json:"fields,omitempty"`
}

// handleAssess scores a CreditApplication body. The correlation id comes from
// the X-Application-ID header, or is generated.
func (s *server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	raw, err := decodeSingleJSON(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Error:   "REQUEST_TOO_LARGE",
				Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   string(errors.ErrCodeInvalidInput),
			Message: err.Error(),
		})
		return
	}

	if res := validation.CreditApplication.Validate(raw); !res.Valid {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   string(errors.ErrCodeInvalidInput),
			Message: "credit application is invalid",
			Fields:  res.Errors,
		})
		return
	}

	var app models.CreditApplication
	if err := json.Unmarshal(raw, &app); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   string(errors.ErrCodeInvalidInput),
			Message: err.Error(),
		})
		return
	}

	applicationID := r.Header.Get("X-Application-ID")
	if applicationID == "" {
		applicationID = uuid.NewString()
	}

	out, err := s.assessor.Execute(r.Context(), &acr.Input{ApplicationID: applicationID, Application: app})
	if err != nil {
		s.writeError(w, applicationID, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) writeError(w http.ResponseWriter, applicationID string, err error) {
	stdErr := errors.FromScoringError(err)

	status := http.StatusInternalServerError
	switch stdErr.Code {
	case errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeAssessmentPersistFailed, errors.ErrCodeDatabaseConnectionFailed:
		status = http.StatusServiceUnavailable
	}

	body := errorBody{Error: string(stdErr.Code), Message: stdErr.Message}
	if field, ok := stdErr.Metadata["field"].(string); ok && field != "" {
		body.Fields = []validation.ValidationError{{Field: field, Message: stdErr.Details, Code: string(stdErr.Code)}}
	}
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("assessment request failed", map[string]interface{}{
			"applicationId": applicationID,
			"errorCode":     string(stdErr.Code),
		})
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var errTrailingData = stderrors.New("request body must hold a single JSON document")

// decodeSingleJSON reads exactly one JSON value from r.
func decodeSingleJSON(r io.Reader) (json.RawMessage, error) {
	dec := json.NewDecoder(r)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, stderrors.New("request body is not valid JSON")
	}

	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case err == io.EOF:
		return raw, nil
	case err != nil:
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, err
		}
	}
	return nil, errTrailingData
}
