package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
)

// Checker pings one backing store.
type Checker func(ctx context.Context) error

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	checks map[string]Checker
	log    *logger.Logger
}

func NewHealthHandler(checks map[string]Checker, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		log:    log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

// Ready pings every configured store. Stores that are not configured are not
// checked.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ready", Checks: map[string]string{}}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Error("Health check failed", "check", name, "error", err)
			resp.Checks[name] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
