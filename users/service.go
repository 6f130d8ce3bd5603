// Package users covers profile management for the authenticated user:
// reading the profile, partial profile updates, and soft account deletion.
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auditlog"
	"github.com/user/tutoria-go/auth"
)

// UpdateProfileRequest is the body of PUT /api/user/profile. Pointer fields
// distinguish "absent" from "set to empty"; absent fields stay unchanged.
type UpdateProfileRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	LanguageLevel *string `json:"languageLevel"`
	Email         *string `json:"email"`
}

// Service implements the user profile operations.
type Service struct {
	store auth.UserStore
	audit *auditlog.Logger
}

// NewService creates a user Service.
func NewService(store auth.UserStore, audit *auditlog.Logger) *Service {
	return &Service{store: store, audit: audit}
}

// GetProfile returns the user's public profile view.
func (s *Service) GetProfile(ctx context.Context, userID int) (*auth.UserView, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, apperror.NewNotFoundError("User not found", err)
		}
		return nil, apperror.NewDatabaseError("failed to load user", err)
	}
	return user.PublicView(), nil
}

// UpdateProfile validates and applies a partial profile update, returning
// the updated view.
func (s *Service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*auth.UserView, error) {
	upd, fields := buildUpdate(req)
	if len(fields) > 0 {
		return nil, apperror.NewFieldValidationError("Validation failed", fields)
	}
	if upd.IsEmpty() {
		return nil, apperror.NewValidationError("No valid fields provided for update", nil)
	}

	user, err := s.store.UpdateProfile(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			return nil, apperror.NewNotFoundError("User not found", err)
		case errors.Is(err, auth.ErrDuplicateEmail):
			return nil, apperror.NewDuplicateError("Email is already in use", err)
		default:
			return nil, apperror.NewDatabaseError("failed to update profile", err)
		}
	}

	s.audit.Info("profile updated", map[string]interface{}{"userId": userID})
	return user.PublicView(), nil
}

// DeactivateAccount soft-deletes the user. The row is kept; the account just
// stops resolving for login and profile reads.
func (s *Service) DeactivateAccount(ctx context.Context, userID int) error {
	if err := s.store.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return apperror.NewNotFoundError("User not found", err)
		}
		return apperror.NewDatabaseError("failed to deactivate account", err)
	}

	s.audit.Info("account deactivated", map[string]interface{}{"userId": userID})
	return nil
}

// buildUpdate turns the request into a store-level update, collecting field
// errors along the way.
func buildUpdate(req UpdateProfileRequest) (auth.ProfileUpdate, []apperror.FieldError) {
	var upd auth.ProfileUpdate
	var fields []apperror.FieldError

	if req.FirstName != nil {
		if len(*req.FirstName) > 50 {
			fields = append(fields, apperror.FieldError{Field: "firstName", Message: "First name must be between 1 and 50 characters"})
		} else {
			upd.FirstName = req.FirstName
		}
	}
	if req.LastName != nil {
		if len(*req.LastName) > 50 {
			fields = append(fields, apperror.FieldError{Field: "lastName", Message: "Last name must be between 1 and 50 characters"})
		} else {
			upd.LastName = req.LastName
		}
	}
	if req.LanguageLevel != nil {
		if !auth.ValidLanguageLevel(*req.LanguageLevel) {
			fields = append(fields, apperror.FieldError{Field: "languageLevel", Message: "Language level must be beginner, intermediate, or advanced"})
		} else {
			upd.LanguageLevel = req.LanguageLevel
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !auth.ValidEmail(email) {
			fields = append(fields, apperror.FieldError{Field: "email", Message: "Please provide a valid email address"})
		} else {
			upd.Email = &email
		}
	}

	return upd, fields
}
