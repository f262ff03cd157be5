package handlers

import (
	"context"
	"net/http"
	"strings"

	"personalblog/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the caller stored by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthMiddleware verifies the bearer token and adds the user to the context
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			WriteError(w, "authentication required", http.StatusUnauthorized)
			return
		}

		user, err := h.AuthService.Verify(r.Context(), token)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware lets only admins through. It must run after AuthMiddleware.
func (h *Handlers) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteError(w, "authentication required", http.StatusUnauthorized)
			return
		}

		if err := h.AuthService.RequireAdmin(user); err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) authenticated(fn http.HandlerFunc) http.Handler {
	return h.AuthMiddleware(fn)
}

func (h *Handlers) adminOnly(fn http.HandlerFunc) http.Handler {
	return h.AuthMiddleware(h.AdminMiddleware(fn))
}
