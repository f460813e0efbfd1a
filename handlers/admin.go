package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kitabghar/middleware"
	"kitabghar/models"
	"kitabghar/store"
)

// AdminHandler serves the manage-users routes. The capability gate is
// applied in the router; handlers still refuse requests without claims.
type AdminHandler struct {
	Store *store.Store
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func userToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.Store.ListUsers()
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userToResponse(&users[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// DeleteUser removes a user. Self-deletion and removing the last admin
// are refused.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if id == claims.UserID {
		http.Error(w, `{"error":"cannot delete your own account"}`, http.StatusBadRequest)
		return
	}
	user, ok := h.Store.UserByID(id)
	if !ok {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if user.Role == models.RoleAdmin && h.Store.AdminsCount() <= 1 {
		http.Error(w, `{"error":"cannot delete the last admin user"}`, http.StatusBadRequest)
		return
	}
	if err := h.Store.DeleteUser(id); err != nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type StatsResponse struct {
	TotalUsers     int           `json:"totalUsers"`
	TotalBooks     int           `json:"totalBooks"`
	TotalDownloads int64         `json:"totalDownloads"`
	RecentBooks    []models.Book `json:"recentBooks"`
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatsResponse{
		TotalUsers:     h.Store.UsersCount(),
		TotalBooks:     h.Store.BooksCount(),
		TotalDownloads: h.Store.DownloadsTotal(),
		RecentBooks:    h.Store.Recent(6),
	})
}
