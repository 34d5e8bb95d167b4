package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avdm2017/microblog/internal/middlewares"
	"github.com/avdm2017/microblog/internal/models"
)

// MeResponse represents the authenticated user's own profile
// swagger:model MeResponse
type MeResponse struct {
	// The acting user
	User *models.UserDB `json:"user"`
}

// NewMeHandler returns an HTTP handler that echoes the acting identity.
// @Summary Current user profile
// @Description Returns the profile of the authenticated user.
// @Tags users
// @Produce json
// @Success 200 {object} handlers.MeResponse "Current user"
// @Failure 401 {object} handlers.LogoutErrorResponse "Unauthorized"
// @Router /me [get]
// @Security BearerAuth
func NewMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MeResponse{User: user})
	}
}
