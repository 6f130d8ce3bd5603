package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, first_name, last_name,
	language_level, total_points, is_active, created_at, updated_at, last_login`

// PostgresUserStore is the pgx-backed UserStore.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore on the given pool.
func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.LanguageLevel, &u.TotalPoints, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// mapUniqueViolation turns a unique-constraint violation into the matching
// sentinel error. The constraint is the only duplicate check, so concurrent
// registrations cannot race past it.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrDuplicateEmail
		}
		if strings.Contains(pgErr.ConstraintName, "username") {
			return ErrDuplicateUsername
		}
	}
	return err
}

// Create inserts a new user row.
func (s *PostgresUserStore) Create(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (username, email, password_hash, first_name, last_name, language_level)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING ` + userColumns
	row := s.db.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.LanguageLevel,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return created, nil
}

// GetByEmail returns the active user with the given email. The email column
// is citext, so lookups are case-insensitive at the database as well.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = TRUE`
	return scanUser(s.db.QueryRow(ctx, query, email))
}

// GetByID returns the active user with the given id.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active = TRUE`
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// TouchLastLogin records a successful login.
func (s *PostgresUserStore) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1 AND is_active = TRUE`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile applies a partial update built from the present fields of
// upd. The SET list is assembled dynamically but every value travels as a
// query parameter.
func (s *PostgresUserStore) UpdateProfile(ctx context.Context, id int, upd ProfileUpdate) (*User, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if upd.FirstName != nil {
		addClause("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		addClause("last_name", *upd.LastName)
	}
	if upd.LanguageLevel != nil {
		addClause("language_level", *upd.LanguageLevel)
	}
	if upd.Email != nil {
		addClause("email", strings.ToLower(*upd.Email))
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d AND is_active = TRUE RETURNING %s`,
		strings.Join(setClauses, ", "), argID, userColumns,
	)

	updated, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return updated, nil
}

// Deactivate flips the active flag. The row, and with it the email and
// username reservations, stays in place.
func (s *PostgresUserStore) Deactivate(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
