package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"iqfieldbot/internal/cache"
	"iqfieldbot/internal/model"
	"iqfieldbot/internal/repository"
	"iqfieldbot/internal/service"
	"iqfieldbot/internal/transport/rest/middleware"
)

// UserHandler handles user profile and leaderboard endpoints
type UserHandler struct {
	authSvc     *service.AuthService
	leaderboard cache.LeaderboardCache
}

// NewUserHandler creates a new user handler
func NewUserHandler(authSvc *service.AuthService, leaderboard cache.LeaderboardCache) *UserHandler {
	return &UserHandler{authSvc: authSvc, leaderboard: leaderboard}
}

// Me handles GET /v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.authSvc.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Leaderboard handles GET /v1/leaderboard/{field}
func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	field := model.Field(mux.Vars(r)["field"])
	if !field.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid field")
		return
	}
	if h.leaderboard == nil {
		writeError(w, http.StatusServiceUnavailable, "leaderboard unavailable")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.leaderboard.GetTop(r.Context(), field, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"field":   field,
		"entries": entries,
	})
}
