// Package handlers contains the HTTP handlers for the scheduling API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps an application error onto its HTTP status and writes the
// structured body.  Internal errors are masked; the code still travels so
// operators can grep logs for it.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: message})
}

// writeValidationError writes a 400 with the validation code.
func writeValidationError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    string(errors.ErrCodeValidation),
		Message: message,
	})
}

// pathID parses a positive int64 path segment previously matched by the mux.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt64 parses an int64 query parameter; ok is false when the parameter
// is absent or malformed.
func queryInt64(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// decodeBody decodes a JSON request body, rejecting unknown garbage early.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New(errors.ErrCodeValidation, "invalid request body").WithCause(err)
	}
	return nil
}

//Personal.AI order the ending
