package auth

import "time"

// Language levels a learner can register with.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// User represents a user row. PasswordHash is tagged json:"-" so it can
// never leak through a serialized response, whatever the handler does.
type User struct {
	ID            int        `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FirstName     *string    `json:"firstName"`
	LastName      *string    `json:"lastName"`
	LanguageLevel string     `json:"languageLevel"`
	TotalPoints   int        `json:"totalPoints"`
	IsActive      bool       `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"-"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
}

// PublicView maps a User to the representation exposed by the API.
func (u *User) PublicView() *UserView {
	return &UserView{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		LanguageLevel: u.LanguageLevel,
		TotalPoints:   u.TotalPoints,
		MemberSince:   u.CreatedAt,
		LastLogin:     u.LastLogin,
	}
}

// ValidLanguageLevel reports whether level is one of the accepted values.
func ValidLanguageLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}
