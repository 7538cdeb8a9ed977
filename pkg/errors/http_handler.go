package errors

import (
	"encoding/json"
	"net/http"
)

// WriteError renders err as the JSON error envelope. Errors that are not
// AppErrors are reported as internal.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())

	return json.NewEncoder(w).Encode(ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
