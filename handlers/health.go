package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const serviceName = "vistoria-api"

// Health reports service identity and database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	version := h.Version
	if version == "" {
		version = "dev"
	}

	database := "connected"
	status := "ok"
	code := http.StatusOK
	if err := h.Repo.Ping(r.Context()); err != nil {
		zap.S().Errorw("health check database ping failed", "error", err)
		database = "error"
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"service":   serviceName,
		"version":   version,
		"database":  database,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
