// Request and response payloads for the auth endpoints.
package auth

import "time"

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username      string `json:"username" example:"maria_91"`
	Email         string `json:"email" example:"maria@example.com"`
	Password      string `json:"password" example:"Str0ngpass"`
	FirstName     string `json:"firstName,omitempty" example:"Maria"`
	LastName      string `json:"lastName,omitempty" example:"Lopez"`
	LanguageLevel string `json:"languageLevel,omitempty" example:"beginner"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" example:"maria@example.com"`
	Password string `json:"password" example:"Str0ngpass"`
}

// UserView is the public representation of a user. It never carries the
// password digest.
type UserView struct {
	ID            int        `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     *string    `json:"firstName"`
	LastName      *string    `json:"lastName"`
	LanguageLevel string     `json:"languageLevel"`
	TotalPoints   int        `json:"totalPoints"`
	MemberSince   time.Time  `json:"memberSince"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    *UserView `json:"user"`
}

// ProfileResponse is returned by the profile endpoints.
type ProfileResponse struct {
	Success bool      `json:"success"`
	User    *UserView `json:"user"`
}

// AckResponse is a bare success acknowledgment.
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VerifyResponse echoes the identity claims of a valid token.
type VerifyResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    ClaimsView `json:"user"`
}

// ClaimsView is the claim subset exposed by the verify endpoint.
type ClaimsView struct {
	UserID   int    `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
