package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auth"
)

// Handlers exposes the user profile endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the user endpoints. The caller wraps the router
// with the auth middleware.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.HandleGetProfile())
	r.Put("/profile", h.HandleUpdateProfile())
	r.Delete("/account", h.HandleDeactivateAccount())
}

// ProfileResponse is returned by the profile endpoints.
type ProfileResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	User    *auth.UserView `json:"user"`
}

// HandleGetProfile godoc
// @Summary Get profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.ProfileResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /api/user/profile [get]
func (h *Handlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		view, err := h.service.GetProfile(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, &ProfileResponse{Success: true, User: view})
	}
}

// HandleUpdateProfile godoc
// @Summary Update profile
// @Description Applies a partial profile update. Absent fields are left unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profileBody body users.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} users.ProfileResponse "Updated profile"
// @Failure 400 {object} apperror.ErrorResponse "Validation failed or email in use"
// @Router /api/user/profile [put]
func (h *Handlers) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("Invalid request body", err))
			return
		}
		defer r.Body.Close()

		view, err := h.service.UpdateProfile(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, &ProfileResponse{
			Success: true,
			Message: "Profile updated successfully",
			User:    view,
		})
	}
}

// HandleDeactivateAccount godoc
// @Summary Delete account
// @Description Soft-deletes the account. The user can no longer log in; data is retained.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.AckResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /api/user/account [delete]
func (h *Handlers) HandleDeactivateAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		if err := h.service.DeactivateAccount(r.Context(), userID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, &auth.AckResponse{
			Success: true,
			Message: "Account deactivated successfully",
		})
	}
}
