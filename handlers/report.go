package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sistemaagil/vistoria/report"
)

// DownloadReport streams the xlsx rendition of one inspection.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	insp, err := h.Repo.FindByToken(r.Context(), token)
	if err != nil {
		failFromErr(w, err)
		return
	}
	photos, err := h.Repo.ListPhotos(r.Context(), insp.ID)
	if err != nil {
		failFromErr(w, err)
		return
	}

	f, err := report.Build(insp, photos)
	if err != nil {
		failFromErr(w, err)
		return
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		failFromErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename(token)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
