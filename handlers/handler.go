// Package handlers is the HTTP surface of the inspection intake API. Every
// handler hangs off one Handler value wired at startup; there is no
// package-level state.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sistemaagil/vistoria/backup"
	"github.com/sistemaagil/vistoria/config"
	"github.com/sistemaagil/vistoria/repository"
	"github.com/sistemaagil/vistoria/storage"
)

// Handler bundles the dependencies of the HTTP surface.
type Handler struct {
	Repo   *repository.InspectionRepository
	Store  storage.Store
	Backup *backup.Writer
	Cfg    *config.Config

	// Version is the build version reported by the health endpoint.
	Version string
}

// New wires a handler set.
func New(repo *repository.InspectionRepository, store storage.Store, bkp *backup.Writer, cfg *config.Config) *Handler {
	return &Handler{Repo: repo, Store: store, Backup: bkp, Cfg: cfg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("encode response", "error", err)
	}
}

// fail writes the error envelope shared by every endpoint.
func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// failFromErr maps repository outcomes onto HTTP statuses: unknown records
// are 404, lost signing races are 410, everything else is a 500 that hides
// the internals from the client.
func failFromErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		fail(w, http.StatusNotFound, "vistoria não encontrada")
	case errors.Is(err, repository.ErrNoMatch):
		fail(w, http.StatusGone, "vistoria já assinada ou indisponível")
	default:
		zap.S().Errorw("request failed", "error", err)
		fail(w, http.StatusInternalServerError, "erro interno")
	}
}
