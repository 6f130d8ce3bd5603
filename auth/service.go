// Package auth implements registration, login, session tokens, and the
// bearer-token middleware protecting the rest of the API.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/config"
)

// Service orchestrates the credential store and the token functions.
type Service struct {
	store UserStore
	cfg   config.AuthConfig
}

// NewService creates an auth Service.
func NewService(store UserStore, cfg config.AuthConfig) *Service {
	return &Service{store: store, cfg: cfg}
}

// Register validates the payload, persists the user with an irreversibly
// hashed password, and issues a session token. Duplicate email or username
// is reported by the store's unique constraint, so the result is race-free.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if fields := ValidateRegister(req); len(fields) > 0 {
		return nil, apperror.NewFieldValidationError("Validation failed", fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	level := req.LanguageLevel
	if level == "" {
		level = LevelBeginner
	}

	user := &User{
		Username:      req.Username,
		Email:         strings.ToLower(req.Email),
		PasswordHash:  string(hashed),
		LanguageLevel: level,
	}
	if req.FirstName != "" {
		user.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		user.LastName = &req.LastName
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrDuplicateUsername) {
			return nil, apperror.NewDuplicateError("User already exists with this email or username", err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	token, err := IssueToken(created, s.cfg.JWTSecret, s.cfg.TokenDuration)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   token,
		User:    created.PublicView(),
	}, nil
}

// Login authenticates by email and password. Unknown email, inactive
// account, and password mismatch all produce the identical error, so the
// endpoint cannot be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if fields := ValidateLogin(req); len(fields) > 0 {
		return nil, apperror.NewFieldValidationError("Validation failed", fields)
	}

	user, err := s.store.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NewAuthError("Invalid credentials", nil)
		}
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError("Invalid credentials", nil)
	}

	now := time.Now()
	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, apperror.NewDatabaseError("failed to record login", err)
	}
	user.LastLogin = &now

	token, err := IssueToken(user, s.cfg.JWTSecret, s.cfg.TokenDuration)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    user.PublicView(),
	}, nil
}

// GetProfile returns the public view of an active user.
func (s *Service) GetProfile(ctx context.Context, userID int) (*UserView, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NewNotFoundError("User not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user.PublicView(), nil
}

// Logout is a stateless acknowledgment. Tokens are not revocable server
// side; the client discards its copy.
func (s *Service) Logout(ctx context.Context) *AckResponse {
	return &AckResponse{Success: true, Message: "Logged out successfully"}
}
