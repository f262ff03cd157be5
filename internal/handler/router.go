package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"personalblog/internal/middleware"
)

// NewRouter registers every route and wraps them in the shared middleware.
func NewRouter(h *Handlers) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/feed.xml", h.Feed).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.Handle("/auth/me", h.authenticated(h.GetCurrentUser)).Methods(http.MethodGet)

	r.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	r.Handle("/posts", h.adminOnly(h.CreatePost)).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id}", h.GetPost).Methods(http.MethodGet)
	r.Handle("/posts/{id}", h.adminOnly(h.UpdatePost)).Methods(http.MethodPut)
	r.Handle("/posts/{id}", h.adminOnly(h.DeletePost)).Methods(http.MethodDelete)
	r.Handle("/posts/{id}/image", h.adminOnly(h.UploadPostImage)).Methods(http.MethodPost)

	r.Handle("/users/{id}/promote", h.adminOnly(h.PromoteUser)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return middleware.Chain(
		r,
		middleware.RecoverMiddleware(h.Logger),
		middleware.LoggingMiddleware(h.Logger),
		middleware.CORSMiddleware(h.Cfg.CORSAllowedOrigin),
	)
}
