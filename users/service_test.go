package users

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auditlog"
	"github.com/user/tutoria-go/auth"
)

// fakeUserStore mirrors the store behavior the service depends on.
type fakeUserStore struct {
	users map[int]*auth.User
}

func newFakeUserStore(seed ...*auth.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int]*auth.User)}
	for _, u := range seed {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	panic("not used in these tests")
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) && u.IsActive {
			out := *u
			return &out, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int) (*auth.User, error) {
	u, ok := f.users[id]
	if !ok || !u.IsActive {
		return nil, auth.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUserStore) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	return nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, id int, upd auth.ProfileUpdate) (*auth.User, error) {
	u, ok := f.users[id]
	if !ok || !u.IsActive {
		return nil, auth.ErrNotFound
	}
	if upd.Email != nil {
		for otherID, other := range f.users {
			if otherID != id && strings.EqualFold(other.Email, *upd.Email) {
				return nil, auth.ErrDuplicateEmail
			}
		}
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = upd.LastName
	}
	if upd.LanguageLevel != nil {
		u.LanguageLevel = *upd.LanguageLevel
	}
	out := *u
	return &out, nil
}

func (f *fakeUserStore) Deactivate(ctx context.Context, id int) error {
	u, ok := f.users[id]
	if !ok || !u.IsActive {
		return auth.ErrNotFound
	}
	u.IsActive = false
	return nil
}

type nullLogStore struct{}

func (nullLogStore) Insert(ctx context.Context, entry *auditlog.Entry) error { return nil }

func newTestService(t *testing.T, store auth.UserStore) *Service {
	t.Helper()
	diag := logrus.New()
	diag.SetOutput(io.Discard)
	audit := auditlog.New(nullLogStore{}, diag, false)
	t.Cleanup(audit.Close)
	return NewService(store, audit)
}

func seedUser() *auth.User {
	return &auth.User{
		ID:            1,
		Username:      "maria_g",
		Email:         "maria@example.com",
		LanguageLevel: auth.LevelBeginner,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
}

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	svc := newTestService(t, newFakeUserStore(seedUser()))

	view, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "maria_g", view.Username)
	assert.Equal(t, "maria@example.com", view.Email)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newTestService(t, newFakeUserStore())

	_, err := svc.GetProfile(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateProfilePartial(t *testing.T) {
	store := newFakeUserStore(seedUser())
	svc := newTestService(t, store)

	view, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileRequest{
		FirstName:     strPtr("María"),
		LanguageLevel: strPtr(auth.LevelIntermediate),
	})
	require.NoError(t, err)

	require.NotNil(t, view.FirstName)
	assert.Equal(t, "María", *view.FirstName)
	assert.Equal(t, auth.LevelIntermediate, view.LanguageLevel)
	assert.Equal(t, "maria@example.com", view.Email, "absent fields stay unchanged")
}

func TestUpdateProfileNormalizesEmail(t *testing.T) {
	store := newFakeUserStore(seedUser())
	svc := newTestService(t, store)

	view, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileRequest{
		Email: strPtr("  Maria.Nueva@Example.COM "),
	})
	require.NoError(t, err)
	assert.Equal(t, "maria.nueva@example.com", view.Email)
}

func TestUpdateProfileValidation(t *testing.T) {
	svc := newTestService(t, newFakeUserStore(seedUser()))

	tests := []struct {
		name string
		req  UpdateProfileRequest
	}{
		{"bad email", UpdateProfileRequest{Email: strPtr("not-an-email")}},
		{"bad level", UpdateProfileRequest{LanguageLevel: strPtr("native")}},
		{"long first name", UpdateProfileRequest{FirstName: strPtr(strings.Repeat("a", 51))}},
		{"long last name", UpdateProfileRequest{LastName: strPtr(strings.Repeat("a", 51))}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(context.Background(), 1, tc.req)
			require.Error(t, err)
			assert.True(t, apperror.IsValidationError(err))
		})
	}
}

func TestUpdateProfileEmptyBody(t *testing.T) {
	svc := newTestService(t, newFakeUserStore(seedUser()))

	_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileRequest{})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	other := seedUser()
	other.ID = 2
	other.Username = "pedro_l"
	other.Email = "pedro@example.com"
	svc := newTestService(t, newFakeUserStore(seedUser(), other))

	_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileRequest{
		Email: strPtr("PEDRO@example.com"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestDeactivateAccount(t *testing.T) {
	store := newFakeUserStore(seedUser())
	svc := newTestService(t, store)

	require.NoError(t, svc.DeactivateAccount(context.Background(), 1))
	assert.False(t, store.users[1].IsActive, "deactivation is a soft delete")

	// The account no longer resolves.
	_, err := svc.GetProfile(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// Deactivating again reports not found.
	err = svc.DeactivateAccount(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
