package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/floorplan/pkg/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeDuplicateIdentifier:
		return http.StatusConflict
	case errors.ErrCodeInvalidContainer, errors.ErrCodeLockedAttribute, errors.ErrCodeMalformedCode,
		errors.ErrCodeIncompleteMapping, errors.ErrCodeBoundsOverflow:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeItemNotFound, errors.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	body := errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)}
	if status == http.StatusInternalServerError && body.Code == "" {
		body.Error = "internal error"
	}
	s.respondJSON(w, status, body)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// decodeBody reads a JSON request body into v. An empty body leaves v
// unchanged.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body")
	}
	return nil
}
