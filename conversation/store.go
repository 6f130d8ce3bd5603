package conversation

import (
	"context"
	"errors"
)

// ErrNotFound means the conversation does not exist or is not owned by the
// requesting user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("conversation not found")

// Store persists conversations and their messages. Every message belongs to
// an existing conversation and every conversation to an existing user;
// implementations back this with foreign keys.
type Store interface {
	// CreateConversation inserts a conversation and returns it with ID and
	// timestamps set.
	CreateConversation(ctx context.Context, conv *Conversation) (*Conversation, error)
	// GetOwned returns the conversation only when it belongs to userID.
	GetOwned(ctx context.Context, id, userID int) (*Conversation, error)
	// Complete marks a conversation completed with its final duration in
	// seconds and returns the updated row.
	Complete(ctx context.Context, id, duration int) (*Conversation, error)
	// AddMessage appends a message to a conversation.
	AddMessage(ctx context.Context, msg *Message) (*Message, error)
	// ListMessages returns a conversation's messages in ascending order.
	ListMessages(ctx context.Context, conversationID int) ([]Message, error)
	// ListByUser returns one page of the user's conversations plus the
	// total count. status filters when non-empty.
	ListByUser(ctx context.Context, userID int, status string, limit, offset int) ([]Summary, int, error)
}
