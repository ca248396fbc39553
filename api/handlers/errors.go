// ABOUTME: Error translation from the importer taxonomy to wire responses
// ABOUTME: Unexpected errors surface as PARSE_FAILED without leaking detail

package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"recipe-importer-api/api/dto/responses"
	"recipe-importer-api/core/errors"
)

// writeError maps err onto the error-code/status taxonomy and writes the
// JSON error body. Untyped errors become PARSE_FAILED with a generic
// message; their detail is the caller's responsibility to log.
func writeError(w http.ResponseWriter, requestID string, err error) {
	var impErr *errors.ImporterError
	if !stderrors.As(err, &impErr) {
		impErr = errors.ParseFailed("")
	}

	writeJSON(w, errors.HTTPStatus(impErr.Kind), responses.ErrorResponse{
		RequestID: requestID,
		Code:      string(impErr.Kind),
		Message:   impErr.Message,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
