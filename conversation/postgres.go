package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the pgx-backed conversation Store.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore on the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateConversation inserts a conversation row.
func (s *PostgresStore) CreateConversation(ctx context.Context, conv *Conversation) (*Conversation, error) {
	query := `INSERT INTO conversations (user_id, topic, difficulty, status)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, user_id, topic, difficulty, duration, status, created_at, updated_at`
	row := s.db.QueryRow(ctx, query, conv.UserID, conv.Topic, conv.Difficulty, StatusActive)

	var created Conversation
	err := row.Scan(&created.ID, &created.UserID, &created.Topic, &created.Difficulty,
		&created.Duration, &created.Status, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetOwned returns the conversation only when it belongs to userID.
func (s *PostgresStore) GetOwned(ctx context.Context, id, userID int) (*Conversation, error) {
	query := `SELECT id, user_id, topic, difficulty, duration, status, created_at, updated_at
	          FROM conversations WHERE id = $1 AND user_id = $2`
	var conv Conversation
	err := s.db.QueryRow(ctx, query, id, userID).Scan(
		&conv.ID, &conv.UserID, &conv.Topic, &conv.Difficulty,
		&conv.Duration, &conv.Status, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// Complete marks a conversation completed and records its duration.
func (s *PostgresStore) Complete(ctx context.Context, id, duration int) (*Conversation, error) {
	query := `UPDATE conversations
	          SET status = $2, duration = $3, updated_at = NOW()
	          WHERE id = $1
	          RETURNING id, user_id, topic, difficulty, duration, status, created_at, updated_at`
	var conv Conversation
	err := s.db.QueryRow(ctx, query, id, StatusCompleted, duration).Scan(
		&conv.ID, &conv.UserID, &conv.Topic, &conv.Difficulty,
		&conv.Duration, &conv.Status, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// AddMessage appends a message and touches the parent's updated_at.
func (s *PostgresStore) AddMessage(ctx context.Context, msg *Message) (*Message, error) {
	query := `INSERT INTO messages (conversation_id, role, content, message_type, audio_url)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, conversation_id, role, content, message_type, audio_url, created_at`
	row := s.db.QueryRow(ctx, query, msg.ConversationID, msg.Role, msg.Content, msg.MessageType, msg.AudioURL)

	var created Message
	err := row.Scan(&created.ID, &created.ConversationID, &created.Role,
		&created.Content, &created.MessageType, &created.AudioURL, &created.CreatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id = $1`, msg.ConversationID); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListMessages returns a conversation's messages in ascending order.
func (s *PostgresStore) ListMessages(ctx context.Context, conversationID int) ([]Message, error) {
	query := `SELECT id, conversation_id, role, content, message_type, audio_url, created_at
	          FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := s.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content,
			&m.MessageType, &m.AudioURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListByUser returns one page of the user's conversations with message
// counts and last messages, newest activity first, plus the total count.
func (s *PostgresStore) ListByUser(ctx context.Context, userID int, status string, limit, offset int) ([]Summary, int, error) {
	filter := `WHERE c.user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		filter += ` AND c.status = $2`
		args = append(args, status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM conversations c ` + filter
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.topic, c.difficulty, c.status, c.created_at, c.updated_at,
		       COUNT(m.id) AS message_count,
		       (SELECT content FROM messages
		        WHERE conversation_id = c.id
		        ORDER BY created_at DESC, id DESC LIMIT 1) AS last_message
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		%s
		GROUP BY c.id
		ORDER BY c.updated_at DESC
		LIMIT $%d OFFSET $%d`, filter, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Topic, &sum.Difficulty, &sum.Status,
			&sum.CreatedAt, &sum.UpdatedAt, &sum.MessageCount, &sum.LastMessage); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, total, rows.Err()
}
