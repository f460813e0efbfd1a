package handlers

import (
	"encoding/json"
	"net/http"

	"kitabghar/middleware"
	"kitabghar/models"
	"kitabghar/store"
)

type ProfileHandler struct {
	Store *store.Store
}

type ProfileResponse struct {
	User  UserResponse  `json:"user"`
	Books []models.Book `json:"books"`
}

// Me returns the caller's account and their uploads, newest first.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	user, ok := h.Store.UserByID(claims.UserID)
	if !ok {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{
		User:  userToResponse(user),
		Books: h.Store.Search("", "", user.ID),
	})
}
