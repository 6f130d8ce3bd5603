package conversation

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auditlog"
	"github.com/user/tutoria-go/gateway"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	conversations map[int]*Conversation
	messages      map[int][]Message
	nextConvID    int
	nextMsgID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: make(map[int]*Conversation),
		messages:      make(map[int][]Message),
		nextConvID:    1,
		nextMsgID:     1,
	}
}

func (f *fakeStore) CreateConversation(ctx context.Context, conv *Conversation) (*Conversation, error) {
	c := *conv
	c.ID = f.nextConvID
	c.Status = StatusActive
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.nextConvID++
	f.conversations[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeStore) GetOwned(ctx context.Context, id, userID int) (*Conversation, error) {
	c, ok := f.conversations[id]
	if !ok || c.UserID != userID {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeStore) Complete(ctx context.Context, id, duration int) (*Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Status = StatusCompleted
	c.Duration = duration
	c.UpdatedAt = time.Now()
	out := *c
	return &out, nil
}

func (f *fakeStore) AddMessage(ctx context.Context, msg *Message) (*Message, error) {
	m := *msg
	m.ID = f.nextMsgID
	m.CreatedAt = time.Now()
	f.nextMsgID++
	f.messages[m.ConversationID] = append(f.messages[m.ConversationID], m)
	if c, ok := f.conversations[m.ConversationID]; ok {
		c.UpdatedAt = time.Now()
	}
	out := m
	return &out, nil
}

func (f *fakeStore) ListMessages(ctx context.Context, conversationID int) ([]Message, error) {
	return append([]Message(nil), f.messages[conversationID]...), nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID int, status string, limit, offset int) ([]Summary, int, error) {
	var all []Summary
	for _, c := range f.conversations {
		if c.UserID != userID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		all = append(all, Summary{
			ID:           c.ID,
			Topic:        c.Topic,
			Difficulty:   c.Difficulty,
			Status:       c.Status,
			MessageCount: len(f.messages[c.ID]),
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		})
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// fakeWorkflow scripts the gateway responses.
type fakeWorkflow struct {
	result *gateway.ProcessResult
	err    error
	calls  int
	last   gateway.ConversationData

	session      *gateway.SessionResult
	sessionErr   error
	feedback     *gateway.FeedbackResult
	feedbackErr  error
	lastFeedback gateway.FeedbackData
}

func (f *fakeWorkflow) ProcessConversation(ctx context.Context, data gateway.ConversationData) (*gateway.ProcessResult, error) {
	f.calls++
	f.last = data
	return f.result, f.err
}

func (f *fakeWorkflow) StartSession(ctx context.Context, data gateway.SessionData) (*gateway.SessionResult, error) {
	return f.session, f.sessionErr
}

func (f *fakeWorkflow) GetFeedback(ctx context.Context, data gateway.FeedbackData) (*gateway.FeedbackResult, error) {
	f.lastFeedback = data
	return f.feedback, f.feedbackErr
}

func testAudit(t *testing.T) *auditlog.Logger {
	t.Helper()
	diag := logrus.New()
	diag.SetOutput(io.Discard)
	audit := auditlog.New(nullLogStore{}, diag, false)
	t.Cleanup(audit.Close)
	return audit
}

type nullLogStore struct{}

func (nullLogStore) Insert(ctx context.Context, entry *auditlog.Entry) error { return nil }

func newTestService(t *testing.T, workflow Workflow) (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, workflow, testAudit(t)), store
}

func TestStartRequiresTopic(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	_, _, err := svc.Start(context.Background(), 1, "", "beginner")
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestStartDefaultsDifficulty(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	conv, _, err := svc.Start(context.Background(), 1, "comida", "")
	require.NoError(t, err)
	assert.Equal(t, "beginner", conv.Difficulty)
	assert.Equal(t, StatusActive, conv.Status)
	assert.Equal(t, 1, conv.UserID)
}

func TestStartRejectsUnknownDifficulty(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	_, _, err := svc.Start(context.Background(), 1, "comida", "fluent")
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestStartPersistsWorkflowGreeting(t *testing.T) {
	wf := &fakeWorkflow{session: &gateway.SessionResult{Greeting: "¡Hola! ¿Listo para practicar?"}}
	svc, store := newTestService(t, wf)

	conv, greeting, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)
	require.NotNil(t, greeting)

	assert.Equal(t, RoleAssistant, greeting.Role)
	assert.Equal(t, "¡Hola! ¿Listo para practicar?", greeting.Content)
	require.Len(t, store.messages[conv.ID], 1)
	assert.Equal(t, greeting.Content, store.messages[conv.ID][0].Content)
}

func TestStartSucceedsWithoutGreetingWhenWorkflowDown(t *testing.T) {
	wf := &fakeWorkflow{sessionErr: errors.New("connection refused")}
	svc, store := newTestService(t, wf)

	conv, greeting, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err, "a broken workflow must not block starting")
	assert.Nil(t, greeting)
	assert.Empty(t, store.messages[conv.ID])
	assert.Equal(t, StatusActive, conv.Status)
}

func TestEndCompletesConversationWithFeedback(t *testing.T) {
	wf := &fakeWorkflow{
		result: &gateway.ProcessResult{Reply: "respuesta"},
		feedback: &gateway.FeedbackResult{
			Feedback:     "Buen manejo del vocabulario de comida.",
			Improvements: []string{"practica el pretérito"},
			Score:        8.5,
		},
	}
	svc, store := newTestService(t, wf)

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)
	_, _, err = svc.SendMessage(context.Background(), 1, conv.ID, "Me gusta la paella", "")
	require.NoError(t, err)

	completed, feedback, err := svc.End(context.Background(), 1, conv.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Equal(t, StatusCompleted, store.conversations[conv.ID].Status)
	require.NotNil(t, feedback)
	assert.Equal(t, 8.5, feedback.Score)
	assert.Contains(t, wf.lastFeedback.Transcript, "user: Me gusta la paella")
	assert.Contains(t, wf.lastFeedback.Transcript, "assistant: respuesta")
}

func TestEndCompletesWithoutFeedbackWhenWorkflowDown(t *testing.T) {
	wf := &fakeWorkflow{feedbackErr: errors.New("connection refused")}
	svc, store := newTestService(t, wf)

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	completed, feedback, err := svc.End(context.Background(), 1, conv.ID)
	require.NoError(t, err, "grading is best effort")
	assert.Nil(t, feedback)
	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Equal(t, StatusCompleted, store.conversations[conv.ID].Status)
}

func TestEndOwnershipIs404(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	_, _, err = svc.End(context.Background(), 2, conv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestEndRejectsCompletedConversation(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	_, _, err = svc.End(context.Background(), 1, conv.ID)
	require.NoError(t, err)

	_, _, err = svc.End(context.Background(), 1, conv.ID)
	require.Error(t, err, "a completed conversation cannot be ended twice")
	assert.True(t, apperror.IsNotFound(err))
}

func TestSendMessagePersistsBothTurns(t *testing.T) {
	wf := &fakeWorkflow{result: &gateway.ProcessResult{Reply: "¡Muy bien dicho!"}}
	svc, store := newTestService(t, wf)

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	userMsg, aiMsg, err := svc.SendMessage(context.Background(), 1, conv.ID, "Me gusta la paella", "")
	require.NoError(t, err)

	assert.Equal(t, RoleUser, userMsg.Role)
	assert.Equal(t, "Me gusta la paella", userMsg.Content)
	assert.Equal(t, "text", userMsg.MessageType)
	assert.Equal(t, RoleAssistant, aiMsg.Role)
	assert.Equal(t, "¡Muy bien dicho!", aiMsg.Content)

	assert.Len(t, store.messages[conv.ID], 2)
	assert.Equal(t, 1, wf.calls)
	assert.Equal(t, "Me gusta la paella", wf.last.Message)
	assert.Equal(t, conv.ID, wf.last.ConversationID)
}

func TestSendMessageFallsBackWhenWorkflowFails(t *testing.T) {
	wf := &fakeWorkflow{err: errors.New("connection refused")}
	svc, store := newTestService(t, wf)

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	userMsg, aiMsg, err := svc.SendMessage(context.Background(), 1, conv.ID, "Hola", "")
	require.NoError(t, err, "a broken workflow must not fail the exchange")

	assert.NotNil(t, userMsg)
	assert.Contains(t, fallbackReplies, aiMsg.Content)
	assert.Len(t, store.messages[conv.ID], 2, "both turns persisted despite the fallback")
}

func TestSendMessageFallsBackOnEmptyReply(t *testing.T) {
	wf := &fakeWorkflow{result: &gateway.ProcessResult{Reply: ""}}
	svc, _ := newTestService(t, wf)

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	_, aiMsg, err := svc.SendMessage(context.Background(), 1, conv.ID, "Hola", "")
	require.NoError(t, err)
	assert.Contains(t, fallbackReplies, aiMsg.Content)
}

func TestSendMessageRequiresContent(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	_, _, err = svc.SendMessage(context.Background(), 1, conv.ID, "", "")
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestSendMessageOwnershipIs404(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{result: &gateway.ProcessResult{Reply: "ok"}})

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	// Another user probing the conversation gets the same 404 as a missing id.
	_, _, errOther := svc.SendMessage(context.Background(), 2, conv.ID, "Hola", "")
	_, _, errMissing := svc.SendMessage(context.Background(), 1, 999, "Hola", "")

	require.Error(t, errOther)
	require.Error(t, errMissing)
	assert.True(t, apperror.IsNotFound(errOther))
	assert.True(t, apperror.IsNotFound(errMissing))

	a, _ := apperror.FromError(errOther)
	b, _ := apperror.FromError(errMissing)
	assert.Equal(t, a.Message, b.Message, "foreign and missing conversations are indistinguishable")
}

func TestSendMessageRejectsInactiveConversation(t *testing.T) {
	svc, store := newTestService(t, &fakeWorkflow{result: &gateway.ProcessResult{Reply: "ok"}})

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)
	store.conversations[conv.ID].Status = StatusCompleted

	_, _, err = svc.SendMessage(context.Background(), 1, conv.ID, "Hola", "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestHistoryReturnsMessagesInOrder(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{result: &gateway.ProcessResult{Reply: "respuesta"}})

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	_, _, err = svc.SendMessage(context.Background(), 1, conv.ID, "primero", "")
	require.NoError(t, err)
	_, _, err = svc.SendMessage(context.Background(), 1, conv.ID, "segundo", "")
	require.NoError(t, err)

	messages, err := svc.History(context.Background(), 1, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, "primero", messages[0].Content)
	assert.Equal(t, RoleAssistant, messages[1].Role)
	assert.Equal(t, "segundo", messages[2].Content)
}

func TestHistoryOwnership(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	conv, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
	require.NoError(t, err)

	_, err = svc.History(context.Background(), 2, conv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	for i := 0; i < 25; i++ {
		_, _, err := svc.Start(context.Background(), 1, "comida", "beginner")
		require.NoError(t, err)
	}

	summaries, page, err := svc.List(context.Background(), 1, 2, 10, "")
	require.NoError(t, err)

	assert.Len(t, summaries, 10)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 25, page.TotalConversations)
	assert.Equal(t, 3, page.TotalPages)
}

func TestListDefaultsAndClamps(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	_, page, err := svc.List(context.Background(), 1, 0, -5, "all")
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.Limit)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	_, _, err := svc.List(context.Background(), 1, 1, 10, "archived")
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService(t, &fakeWorkflow{})

	summaries, page, err := svc.List(context.Background(), 1, 1, 10, "")
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
	assert.Equal(t, 0, page.TotalConversations)
}
