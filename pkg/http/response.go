package http

import (
	"encoding/json"
	"net/http"

	apperrors "staybook/pkg/errors"
)

type SuccessResponse struct {
	Data any `json:"data"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err with the error envelope from pkg/errors.
func WriteError(w http.ResponseWriter, err error) error {
	return apperrors.WriteError(w, err)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}

// DecodeJSON reads a request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return apperrors.InvalidInput("Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.InvalidInput("Invalid JSON body")
	}
	return nil
}
