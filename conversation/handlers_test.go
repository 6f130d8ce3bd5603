package conversation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tutoria-go/auth"
	"github.com/user/tutoria-go/gateway"
)

func withClaims(userID int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.NewContextWithClaims(r.Context(), &auth.Claims{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newHandlerRouter(t *testing.T, workflow Workflow, userID int) http.Handler {
	t.Helper()
	svc, _ := newTestService(t, workflow)
	handlers := NewHandlers(svc)

	r := chi.NewRouter()
	r.Route("/api/conversation", func(r chi.Router) {
		r.Use(withClaims(userID))
		handlers.RegisterRoutes(r)
	})
	return r
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestConversationFlow(t *testing.T) {
	wf := &fakeWorkflow{
		result:   &gateway.ProcessResult{Reply: "¡Qué rico!"},
		feedback: &gateway.FeedbackResult{Feedback: "Muy bien", Score: 9},
	}
	router := newHandlerRouter(t, wf, 1)

	// Start.
	rec := doJSON(router, http.MethodPost, "/api/conversation/start",
		`{"topic":"comida","difficulty":"beginner"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var started StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	require.NotNil(t, started.Conversation)
	convID := started.Conversation.ID

	// Message.
	rec = doJSON(router, http.MethodPost,
		"/api/conversation/1/message", `{"message":"Me gusta la paella"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var exchange MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exchange))
	assert.Equal(t, "Me gusta la paella", exchange.UserMessage.Content)
	assert.Equal(t, "¡Qué rico!", exchange.AIResponse.Content)

	// History.
	rec = doJSON(router, http.MethodGet, "/api/conversation/1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var history HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Equal(t, 2, history.TotalMessages)
	assert.Len(t, history.Messages, 2)

	// List.
	rec = doJSON(router, http.MethodGet, "/api/conversation/list?page=1&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Conversations, 1)
	assert.Equal(t, convID, list.Conversations[0].ID)
	require.NotNil(t, list.Pagination)
	assert.Equal(t, 1, list.Pagination.TotalConversations)

	// End.
	rec = doJSON(router, http.MethodPost, "/api/conversation/1/end", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ended EndResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ended))
	assert.Equal(t, StatusCompleted, ended.Conversation.Status)
	require.NotNil(t, ended.Feedback)
	assert.Equal(t, "Muy bien", ended.Feedback.Feedback)
	assert.Equal(t, float64(9), ended.Feedback.Score)
}

func TestStartMissingTopic(t *testing.T) {
	router := newHandlerRouter(t, &fakeWorkflow{}, 1)

	rec := doJSON(router, http.MethodPost, "/api/conversation/start", `{"difficulty":"beginner"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Topic is required")
}

func TestMessageInvalidID(t *testing.T) {
	router := newHandlerRouter(t, &fakeWorkflow{}, 1)

	rec := doJSON(router, http.MethodPost, "/api/conversation/abc/message", `{"message":"Hola"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEmptyIsArray(t *testing.T) {
	router := newHandlerRouter(t, &fakeWorkflow{}, 1)

	rec := doJSON(router, http.MethodPost, "/api/conversation/start", `{"topic":"comida"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/conversation/1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)
}
