package auth

import (
	"regexp"
	"unicode"

	"github.com/user/tutoria-go/apperror"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// ValidEmail reports whether the address has the user@host.tld shape. Real
// deliverability is not checked.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validPassword enforces the registration password policy: at least 6
// characters with one upper-case letter, one lower-case letter and a digit.
func validPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// ValidateRegister checks a registration payload field by field and returns
// the collected detail, or nil when the payload is acceptable.
func ValidateRegister(req RegisterRequest) []apperror.FieldError {
	var fields []apperror.FieldError

	if req.Email == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "Email is required"})
	} else if !ValidEmail(req.Email) {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "Please provide a valid email address"})
	}

	if req.Password == "" {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "Password is required"})
	} else if !validPassword(req.Password) {
		fields = append(fields, apperror.FieldError{
			Field:   "password",
			Message: "Password must be at least 6 characters long and contain at least one uppercase letter, one lowercase letter, and one number",
		})
	}

	if req.Username == "" {
		fields = append(fields, apperror.FieldError{Field: "username", Message: "Username is required"})
	} else if len(req.Username) < 3 || len(req.Username) > 20 || !usernamePattern.MatchString(req.Username) {
		fields = append(fields, apperror.FieldError{
			Field:   "username",
			Message: "Username must be between 3 and 20 characters and contain only letters, numbers, and underscores",
		})
	}

	if len(req.FirstName) > 50 {
		fields = append(fields, apperror.FieldError{Field: "firstName", Message: "First name must be between 1 and 50 characters"})
	}
	if len(req.LastName) > 50 {
		fields = append(fields, apperror.FieldError{Field: "lastName", Message: "Last name must be between 1 and 50 characters"})
	}

	if req.LanguageLevel != "" && !ValidLanguageLevel(req.LanguageLevel) {
		fields = append(fields, apperror.FieldError{
			Field:   "languageLevel",
			Message: "Language level must be beginner, intermediate, or advanced",
		})
	}

	return fields
}

// ValidateLogin checks a login payload.
func ValidateLogin(req LoginRequest) []apperror.FieldError {
	var fields []apperror.FieldError

	if req.Email == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "Email is required"})
	} else if !ValidEmail(req.Email) {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "Please provide a valid email address"})
	}
	if req.Password == "" {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "Password is required"})
	}

	return fields
}
