package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SigningInfo serves the public signing page: the inspection and its photo
// listing. Unknown tokens are 404; expired or already signed ones are 410 so
// the page can say why the link stopped working.
func (h *Handler) SigningInfo(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	insp, err := h.Repo.FindByToken(r.Context(), token)
	if err != nil {
		failFromErr(w, err)
		return
	}
	if insp.Signed() {
		writeJSON(w, http.StatusGone, map[string]any{
			"success": false, "message": "vistoria já assinada", "ja_assinada": true,
		})
		return
	}
	if insp.TokenExpired(time.Now()) {
		writeJSON(w, http.StatusGone, map[string]any{
			"success": false, "message": "link de assinatura expirado", "expirado": true,
		})
		return
	}

	photos, err := h.Repo.ListPhotos(r.Context(), insp.ID)
	if err != nil {
		failFromErr(w, err)
		return
	}
	// A save whose photo inserts all failed still has its backup snapshot;
	// render from that rather than showing an empty page.
	if len(photos) == 0 && h.Backup != nil {
		restored, berr := h.Backup.PhotosFromLatest(token)
		if berr != nil {
			zap.S().Warnw("backup photo fallback failed", "token", token, "error", berr)
		} else if len(restored) > 0 {
			zap.S().Infow("photo listing restored from backup", "token", token, "fotos", len(restored))
			photos = restored
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"vistoria": insp,
		"fotos":    photos,
	})
}

type signRequest struct {
	Signature string `json:"assinatura"`
	Name      string `json:"nome"`
}

// ConfirmSignature finishes an inspection. Expiry is gated here; the
// conditional update in the repository guarantees at most one caller wins.
func (h *Handler) ConfirmSignature(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "payload inválido")
		return
	}
	if !strings.HasPrefix(req.Signature, "data:") {
		fail(w, http.StatusBadRequest, "assinatura ausente ou inválida")
		return
	}

	insp, err := h.Repo.FindByToken(r.Context(), token)
	if err != nil {
		failFromErr(w, err)
		return
	}
	if insp.TokenExpired(time.Now()) {
		writeJSON(w, http.StatusGone, map[string]any{
			"success": false, "message": "link de assinatura expirado", "expirado": true,
		})
		return
	}

	file, err := h.Store.SaveSignature(r.Context(), token, req.Signature)
	if err != nil {
		failFromErr(w, err)
		return
	}

	signer := strings.TrimSpace(req.Name)
	if signer == "" {
		signer = insp.CustomerName
	}
	signed, err := h.Repo.Sign(r.Context(), token, file, signer)
	if err != nil {
		failFromErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "vistoria assinada",
		"vistoria": signed,
	})
}
