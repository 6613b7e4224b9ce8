package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lexalyze/legal-docs-api/internal/auth"
	"github.com/lexalyze/legal-docs-api/internal/handlers"
	"github.com/lexalyze/legal-docs-api/internal/middleware"
	"github.com/lexalyze/legal-docs-api/internal/utils"
)

func New(docHandler *handlers.DocumentHandler, authHandler *handlers.AuthHandler, tokens *auth.TokenManager, allowedOrigin string, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(allowedOrigin))
	r.Use(middleware.Metrics())

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"OK","message":"Server is running"}`))
	}).Methods(http.MethodGet)

	// Auth endpoints
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", authHandler.Signin).Methods(http.MethodPost)

	me := api.PathPrefix("/auth/me").Subrouter()
	me.Use(middleware.Auth(tokens))
	me.HandleFunc("", authHandler.Me).Methods(http.MethodGet)

	// Document endpoints, all behind auth
	docs := api.PathPrefix("/documents").Subrouter()
	docs.Use(middleware.Auth(tokens))
	docs.HandleFunc("/upload", docHandler.UploadDocument).Methods(http.MethodPost)
	docs.HandleFunc("", docHandler.ListDocuments).Methods(http.MethodGet)
	docs.HandleFunc("/{id}", docHandler.GetDocument).Methods(http.MethodGet)
	docs.HandleFunc("/{id}/analyze", docHandler.ReanalyzeDocument).Methods(http.MethodPost)
	docs.HandleFunc("/{id}/highlights/{index}", docHandler.AnnotateHighlight).Methods(http.MethodPatch)
	docs.HandleFunc("/{id}", docHandler.DeleteDocument).Methods(http.MethodDelete)

	return r
}
