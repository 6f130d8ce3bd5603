package auditlog

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLogStore appends entries to the logs table. It runs on the
// dedicated log pool so inserts never compete with request-path queries.
type PostgresLogStore struct {
	db *pgxpool.Pool
}

// NewPostgresLogStore creates a PostgresLogStore on the given pool.
func NewPostgresLogStore(db *pgxpool.Pool) *PostgresLogStore {
	return &PostgresLogStore{db: db}
}

// Insert implements LogStore.
func (s *PostgresLogStore) Insert(ctx context.Context, entry *Entry) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			// Unserializable metadata is dropped rather than failing the entry.
			metadata = nil
		}
	}

	query := `INSERT INTO logs
	          (level, message, method, path, status_code, response_time, ip, user_agent, user_id, error, stack, metadata, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.db.Exec(ctx, query,
		entry.Level,
		entry.Message,
		nullStr(entry.Method),
		nullStr(entry.Path),
		nullInt(entry.StatusCode),
		nullInt(entry.ResponseTime),
		nullStr(entry.IP),
		nullStr(entry.UserAgent),
		entry.UserID,
		nullStr(entry.Error),
		nullStr(entry.Stack),
		metadata,
		entry.CreatedAt,
	)
	return err
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(i int) *int {
	if i == 0 {
		return nil
	}
	return &i
}
