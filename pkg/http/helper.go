package http

import (
	"net/http"
	"strconv"

	apperrors "staybook/pkg/errors"
)

// QueryInt reads an integer query parameter; missing means fallback.
func QueryInt(r *http.Request, key string, fallback int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + key + " parameter: " + s)
	}
	return v, nil
}

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	limit, err := QueryInt(r, "limit", 0)
	if err != nil {
		return 0, 0, err
	}
	offset, err := QueryInt(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	return limit, int64(offset), nil
}

// ExtractPage reads page and pageSize, with page defaulting to 1.
func ExtractPage(r *http.Request) (int, int, error) {
	page, err := QueryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := QueryInt(r, "pageSize", 0)
	if err != nil {
		return 0, 0, err
	}
	return max(page, 1), pageSize, nil
}
