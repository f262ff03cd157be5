package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	WriteSuccess(w, user, http.StatusOK)
}

func (h *Handlers) PromoteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	user, err := h.UserService.Promote(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if caller, ok := UserFromContext(r.Context()); ok {
		h.Logger.WithField("user_id", userID).WithField("by", caller.UserID).Info("user promoted to admin")
	}
	WriteSuccess(w, user, http.StatusOK)
}
