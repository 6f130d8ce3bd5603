package conversation

import "time"

// Conversation statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is one practice conversation owned by a user.
type Conversation struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	Topic      string    `json:"topic"`
	Difficulty string    `json:"difficulty"`
	Duration   int       `json:"duration"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Message is a single turn inside a conversation.
type Message struct {
	ID             int       `json:"id"`
	ConversationID int       `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	MessageType    string    `json:"messageType"`
	AudioURL       *string   `json:"audioUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Summary is the list-view of a conversation: the row plus the message
// count and the most recent message.
type Summary struct {
	ID           int       `json:"id"`
	Topic        string    `json:"topic"`
	Difficulty   string    `json:"difficulty"`
	Status       string    `json:"status"`
	MessageCount int       `json:"messageCount"`
	LastMessage  *string   `json:"lastMessage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
