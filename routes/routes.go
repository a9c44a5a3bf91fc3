package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sistemaagil/vistoria/config"
	"github.com/sistemaagil/vistoria/handlers"
	"github.com/sistemaagil/vistoria/middleware"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(h *handlers.Handler, cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/api/health", h.Health).Methods("GET")
	r.HandleFunc("/api/login", h.Login).Methods("POST")

	// The signing page is opened from a link sent to the customer; its only
	// credential is the token itself.
	r.HandleFunc("/api/sign/{token}", h.SigningInfo).Methods("GET")
	r.HandleFunc("/api/sign/{token}", h.ConfirmSignature).Methods("POST")

	// Static files only exist with the local store; with GCS the URLs point
	// at the bucket.
	if !cfg.UseGCS {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))),
		)
		r.PathPrefix("/assinaturas/").Handler(
			http.StripPrefix("/assinaturas/", http.FileServer(http.Dir(cfg.SignatureDir))),
		)
	}

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware(cfg.JWTSecret))

	api.HandleFunc("/inspections", h.CreateInspection).Methods("POST")
	api.HandleFunc("/inspections/form", h.CreateInspectionForm).Methods("POST")
	api.HandleFunc("/inspections/recent", h.RecentInspections).Methods("GET")
	api.HandleFunc("/inspections/{id:[0-9]+}", h.GetInspection).Methods("GET")
	api.HandleFunc("/report/{token}", h.DownloadReport).Methods("GET")

	return middleware.CORS(r)
}
