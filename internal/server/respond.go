package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError maps err to a status code and writes it as JSON.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
		if status == http.StatusRequestEntityTooLarge {
			code = errs.ErrCodeInvalidInput
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errs.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errs.IsInvalid(err) {
		return http.StatusBadRequest
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeSessionNotFound, errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeSessionClosed:
		return http.StatusGone
	case errs.ErrCodeSessionLimit:
		return http.StatusServiceUnavailable
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
