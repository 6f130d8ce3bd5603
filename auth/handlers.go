package auth

import (
	"encoding/json"
	"net/http"

	"github.com/user/tutoria-go/apperror"
)

// Handlers exposes the auth endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary User registration
// @Description Registers a new user and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.AuthResponse "User created"
// @Failure 400 {object} apperror.ErrorResponse "Validation failed or duplicate user"
// @Failure 429 {object} apperror.ErrorResponse "Too many attempts"
// @Router /api/auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewValidationError("Invalid request body", err))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusCreated, resp)
	}
}

// HandleLogin godoc
// @Summary User login
// @Description Authenticates a user and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User credentials"
// @Success 200 {object} auth.AuthResponse "Login successful"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 429 {object} apperror.ErrorResponse "Too many attempts"
// @Router /api/auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewValidationError("Invalid request body", err))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleMe godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.ProfileResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /api/auth/me [get]
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		view, err := h.service.GetProfile(r.Context(), userID)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, &ProfileResponse{Success: true, User: view})
	}
}

// HandleLogout godoc
// @Summary Logout
// @Description Acknowledges logout. Tokens are stateless; the client discards its copy.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.AckResponse
// @Router /api/auth/logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, h.service.Logout(r.Context()))
	}
}

// HandleVerify godoc
// @Summary Verify token
// @Description Confirms the bearer token is valid and echoes its identity claims.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.VerifyResponse
// @Failure 403 {object} apperror.ErrorResponse "Invalid or expired token"
// @Router /api/auth/verify [get]
func (h *Handlers) HandleVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}
		WriteJSON(w, http.StatusOK, &VerifyResponse{
			Success: true,
			Message: "Token is valid",
			User: ClaimsView{
				UserID:   claims.UserID,
				Email:    claims.Email,
				Username: claims.Username,
			},
		})
	}
}

// WriteJSON serializes data and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"success":false,"message":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError renders any error through the apperror envelope. Errors that
// are not *AppError are wrapped as generic internal errors, so unexpected
// failures never leak detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("Internal server error", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
