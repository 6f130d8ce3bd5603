// Package conversation persists practice conversations and their messages,
// delegating assistant replies to the external workflow gateway.
package conversation

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auditlog"
	"github.com/user/tutoria-go/auth"
	"github.com/user/tutoria-go/gateway"
)

// Workflow is the slice of the gateway client the conversation service
// uses: replies for turns, a greeting for new sessions, and feedback for
// finished ones. Tests use a fake.
type Workflow interface {
	ProcessConversation(ctx context.Context, data gateway.ConversationData) (*gateway.ProcessResult, error)
	StartSession(ctx context.Context, data gateway.SessionData) (*gateway.SessionResult, error)
	GetFeedback(ctx context.Context, data gateway.FeedbackData) (*gateway.FeedbackResult, error)
}

// fallbackReplies are served when the workflow is unavailable or returns no
// reply, so a broken upstream degrades the tutor instead of breaking it.
var fallbackReplies = []string{
	"¡Excelente! Continúa practicando.",
	"Muy bien. ¿Puedes decirme más sobre eso en español?",
	"Perfecto. Ahora intenta usar esas palabras en una oración.",
	"¡Fantástico! Tu español está mejorando.",
	"Bien hecho. ¿Qué más te gustaría aprender?",
}

// Service implements the conversation operations.
type Service struct {
	store    Store
	workflow Workflow
	audit    *auditlog.Logger
}

// NewService creates a conversation Service.
func NewService(store Store, workflow Workflow, audit *auditlog.Logger) *Service {
	return &Service{store: store, workflow: workflow, audit: audit}
}

// Start creates a new active conversation for the user. The workflow is
// asked for an opening greeting; when it answers one, the greeting is
// persisted as the first assistant message and returned alongside the
// conversation. A failing workflow degrades to a greeting-less start.
func (s *Service) Start(ctx context.Context, userID int, topic, difficulty string) (*Conversation, *Message, error) {
	if topic == "" {
		return nil, nil, apperror.NewValidationError("Topic is required", nil)
	}
	if difficulty == "" {
		difficulty = auth.LevelBeginner
	}
	if !auth.ValidLanguageLevel(difficulty) {
		return nil, nil, apperror.NewValidationError("Difficulty must be beginner, intermediate, or advanced", nil)
	}

	conv, err := s.store.CreateConversation(ctx, &Conversation{
		UserID:     userID,
		Topic:      topic,
		Difficulty: difficulty,
	})
	if err != nil {
		return nil, nil, apperror.NewDatabaseError("failed to create conversation", err)
	}

	var greeting *Message
	session, err := s.workflow.StartSession(ctx, gateway.SessionData{
		UserID:      userID,
		Level:       difficulty,
		Preferences: []string{topic},
	})
	if err == nil && session != nil && session.Greeting != "" {
		greeting, err = s.store.AddMessage(ctx, &Message{
			ConversationID: conv.ID,
			Role:           RoleAssistant,
			Content:        session.Greeting,
			MessageType:    "text",
		})
		if err != nil {
			return nil, nil, apperror.NewDatabaseError("failed to save greeting", err)
		}
	}

	s.audit.Info("conversation started", map[string]interface{}{
		"conversationId": conv.ID,
		"userId":         userID,
		"topic":          topic,
	})
	return conv, greeting, nil
}

// SendMessage persists the user's message, obtains the assistant reply, and
// persists that too. Both messages are returned.
func (s *Service) SendMessage(ctx context.Context, userID, conversationID int, content, messageType string) (*Message, *Message, error) {
	if content == "" {
		return nil, nil, apperror.NewValidationError("Message is required", nil)
	}
	if messageType == "" {
		messageType = "text"
	}

	conv, err := s.ownedActive(ctx, conversationID, userID)
	if err != nil {
		return nil, nil, err
	}

	userMsg, err := s.store.AddMessage(ctx, &Message{
		ConversationID: conv.ID,
		Role:           RoleUser,
		Content:        content,
		MessageType:    messageType,
	})
	if err != nil {
		return nil, nil, apperror.NewDatabaseError("failed to save message", err)
	}

	assistantMsg, err := s.store.AddMessage(ctx, &Message{
		ConversationID: conv.ID,
		Role:           RoleAssistant,
		Content:        s.assistantReply(ctx, userID, conv.ID, content),
		MessageType:    "text",
	})
	if err != nil {
		return nil, nil, apperror.NewDatabaseError("failed to save assistant reply", err)
	}

	return userMsg, assistantMsg, nil
}

// assistantReply asks the workflow for a reply, falling back to a canned
// tutor phrase when the workflow fails or answers empty.
func (s *Service) assistantReply(ctx context.Context, userID, conversationID int, content string) string {
	result, err := s.workflow.ProcessConversation(ctx, gateway.ConversationData{
		UserID:         userID,
		ConversationID: conversationID,
		Message:        content,
	})
	if err == nil && result.Reply != "" {
		return result.Reply
	}
	return fallbackReplies[rand.Intn(len(fallbackReplies))]
}

// End completes an active conversation and asks the workflow to grade it
// from the transcript. Grading is best effort: the conversation completes
// even when the workflow is down, with no feedback attached.
func (s *Service) End(ctx context.Context, userID, conversationID int) (*Conversation, *gateway.FeedbackResult, error) {
	conv, err := s.ownedActive(ctx, conversationID, userID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, nil, apperror.NewDatabaseError("failed to load messages", err)
	}

	duration := int(time.Since(conv.CreatedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	completed, err := s.store.Complete(ctx, conv.ID, duration)
	if err != nil {
		return nil, nil, apperror.NewDatabaseError("failed to complete conversation", err)
	}

	feedback, err := s.workflow.GetFeedback(ctx, gateway.FeedbackData{
		ConversationID: conv.ID,
		Transcript:     transcript(messages),
		Duration:       duration,
	})
	if err != nil {
		feedback = nil
	}

	s.audit.Info("conversation ended", map[string]interface{}{
		"conversationId": conv.ID,
		"userId":         userID,
		"duration":       duration,
		"messageCount":   len(messages),
	})
	return completed, feedback, nil
}

// transcript flattens a message list into the "role: content" lines the
// workflow grades from.
func transcript(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// History returns the messages of a conversation the user owns.
func (s *Service) History(ctx context.Context, userID, conversationID int) ([]Message, error) {
	if _, err := s.ownedAny(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load messages", err)
	}
	return messages, nil
}

// Page is the pagination envelope of List.
type Page struct {
	CurrentPage        int `json:"currentPage"`
	Limit              int `json:"limit"`
	TotalConversations int `json:"totalConversations"`
	TotalPages         int `json:"totalPages"`
}

// List returns one page of the user's conversations.
func (s *Service) List(ctx context.Context, userID, page, limit int, status string) ([]Summary, *Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if status == "all" {
		status = ""
	}
	if status != "" && status != StatusActive && status != StatusCompleted && status != StatusPaused {
		return nil, nil, apperror.NewValidationError("Status must be active, completed, paused, or all", nil)
	}

	summaries, total, err := s.store.ListByUser(ctx, userID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, apperror.NewDatabaseError("failed to list conversations", err)
	}
	if summaries == nil {
		summaries = []Summary{}
	}

	totalPages := (total + limit - 1) / limit
	return summaries, &Page{
		CurrentPage:        page,
		Limit:              limit,
		TotalConversations: total,
		TotalPages:         totalPages,
	}, nil
}

func (s *Service) ownedAny(ctx context.Context, conversationID, userID int) (*Conversation, error) {
	conv, err := s.store.GetOwned(ctx, conversationID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NewNotFoundError("Conversation not found or not accessible", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load conversation", err)
	}
	return conv, nil
}

func (s *Service) ownedActive(ctx context.Context, conversationID, userID int) (*Conversation, error) {
	conv, err := s.ownedAny(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv.Status != StatusActive {
		return nil, apperror.NewNotFoundError("Conversation not found or not accessible", nil)
	}
	return conv, nil
}
