package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sistemaagil/vistoria/middleware"
	"github.com/sistemaagil/vistoria/models"
	"github.com/sistemaagil/vistoria/repository"
)

// CreateInspection accepts the structured JSON payload posted by the web
// form: vehicle, checklist, tire brands, photos (data URLs or uploaded
// references) and up to four observation texts. An inline signature makes
// the save a "presencial" one and signs the record immediately.
func (h *Handler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	var req models.NestedIntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "payload inválido")
		return
	}
	intake := models.IntakeFromNested(&req)
	h.saveInspection(w, r, intake, nil)
}

// CreateInspectionForm accepts the flat multipart shape used by older
// clients: key/value fields plus photo files keyed by their category slot.
func (h *Handler) CreateInspectionForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadBytes); err != nil {
		fail(w, http.StatusBadRequest, "form inválido ou acima do limite de upload")
		return
	}
	intake := models.IntakeFromForm(url.Values(r.MultipartForm.Value))
	intake.SignatureDataURL = r.FormValue("assinatura")
	h.saveInspection(w, r, intake, r.MultipartForm.File)
}

// saveInspection is the shared write path: validate, fix the token,
// materialize every photo through file intake, run the save sequence, then
// handle an inline signature.
func (h *Handler) saveInspection(w http.ResponseWriter, r *http.Request, intake *models.InspectionIntake, files map[string][]*multipart.FileHeader) {
	if intake.InspectorName == "" {
		intake.InspectorName = middleware.GetName(r)
	}
	if missing := intake.Validate(); len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "campos obrigatórios ausentes",
			"campos":  missing,
		})
		return
	}

	token, err := repository.NewToken(time.Now())
	if err != nil {
		failFromErr(w, err)
		return
	}
	intake.Token = token

	photos := h.materializePhotos(r, intake, token, files)

	result, err := h.Repo.SaveComplete(r.Context(), intake, photos, repository.ParseSavePolicy(h.Cfg.SavePolicy))
	if err != nil {
		failFromErr(w, err)
		return
	}

	signed := false
	if intake.SignatureDataURL != "" {
		signed = h.signInline(r, result.Token, intake)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":            true,
		"id":                 result.InspectionID,
		"token":              result.Token,
		"fotos_salvas":       len(result.PhotoIDs),
		"fotos_com_falha":    result.PhotosFailed,
		"observacoes_salvas": result.ObservationsSaved,
		"assinada":           signed,
	})
}

// materializePhotos runs file intake for every photo of the request. A photo
// that cannot be materialized is skipped with a log line; the save sequence
// is best-effort end to end.
func (h *Handler) materializePhotos(r *http.Request, intake *models.InspectionIntake, token string, files map[string][]*multipart.FileHeader) []repository.PhotoInput {
	photos := make([]repository.PhotoInput, 0, len(intake.Photos)+len(files))

	for _, p := range intake.Photos {
		if strings.HasPrefix(p.URL, "data:") {
			file, err := h.Store.SaveDataURL(r.Context(), p.Category, token, p.URL)
			if err != nil {
				zap.S().Errorw("photo intake failed, skipping", "token", token, "category", p.Category, "error", err)
				continue
			}
			photos = append(photos, repository.PhotoInput{Category: p.Category, File: file})
			continue
		}
		// Already materialized by a prior upload; record the reference as-is.
		photos = append(photos, repository.PhotoInput{Category: p.Category, File: models.FileInfo{
			Filename: p.Name,
			Path:     p.URL,
			URL:      p.URL,
			Size:     p.Size,
			MimeType: p.MimeType,
		}})
	}

	for category, headers := range files {
		if category == "assinatura" || len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			zap.S().Errorw("photo upload open failed, skipping", "token", token, "category", category, "error", err)
			continue
		}
		file, err := h.Store.SavePhoto(r.Context(), category, token, f, headers[0].Filename, headers[0].Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			zap.S().Errorw("photo intake failed, skipping", "token", token, "category", category, "error", err)
			continue
		}
		photos = append(photos, repository.PhotoInput{Category: category, File: file})
	}
	return photos
}

// signInline signs a just-created inspection with the signature captured
// during intake. A failure here never undoes the save.
func (h *Handler) signInline(r *http.Request, token string, intake *models.InspectionIntake) bool {
	file, err := h.Store.SaveSignature(r.Context(), token, intake.SignatureDataURL)
	if err != nil {
		zap.S().Errorw("inline signature intake failed", "token", token, "error", err)
		return false
	}
	signer := intake.CustomerName
	if signer == "" {
		signer = intake.ThirdPartyName
	}
	if _, err := h.Repo.Sign(r.Context(), token, file, signer); err != nil {
		zap.S().Errorw("inline signing failed", "token", token, "error", err)
		return false
	}
	return true
}

// RecentInspections returns the newest records for the operator dashboard.
func (h *Handler) RecentInspections(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.Repo.ListRecent(r.Context(), limit)
	if err != nil {
		failFromErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "vistorias": rows})
}

// GetInspection returns one inspection with its photo listing.
func (h *Handler) GetInspection(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		fail(w, http.StatusBadRequest, "id inválido")
		return
	}
	insp, err := h.Repo.FindByID(r.Context(), uint(id))
	if err != nil {
		failFromErr(w, err)
		return
	}
	photos, err := h.Repo.ListPhotos(r.Context(), insp.ID)
	if err != nil {
		failFromErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "vistoria": insp, "fotos": photos})
}
