package conversation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auth"
)

// Handlers exposes the conversation endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the conversation endpoints. The caller wraps the
// router with the auth middleware.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/start", h.HandleStart())
	r.Post("/{id}/message", h.HandleSendMessage())
	r.Post("/{id}/end", h.HandleEnd())
	r.Get("/{id}/history", h.HandleHistory())
	r.Get("/list", h.HandleList())
}

// StartRequest is the body of POST /start.
type StartRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// StartResponse is returned by POST /start. Greeting is the workflow's
// opening assistant message when one was produced.
type StartResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Conversation *Conversation `json:"conversation"`
	Greeting     *Message      `json:"greeting,omitempty"`
}

// MessageRequest is the body of POST /{id}/message.
type MessageRequest struct {
	Message     string `json:"message"`
	MessageType string `json:"messageType"`
}

// MessageResponse carries both turns of an exchange.
type MessageResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	UserMessage *Message `json:"userMessage"`
	AIResponse  *Message `json:"aiResponse"`
}

// FeedbackView is the JSON shape of the workflow's grading.
type FeedbackView struct {
	Feedback     string   `json:"feedback"`
	Improvements []string `json:"improvements"`
	Score        float64  `json:"score"`
}

// EndResponse is returned by POST /{id}/end. Feedback is omitted when the
// workflow could not grade the conversation.
type EndResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Conversation *Conversation `json:"conversation"`
	Feedback     *FeedbackView `json:"feedback,omitempty"`
}

// HistoryResponse is returned by GET /{id}/history.
type HistoryResponse struct {
	Success       bool      `json:"success"`
	Messages      []Message `json:"messages"`
	TotalMessages int       `json:"totalMessages"`
}

// ListResponse is returned by GET /list.
type ListResponse struct {
	Success       bool      `json:"success"`
	Conversations []Summary `json:"conversations"`
	Pagination    *Page     `json:"pagination"`
}

// HandleStart godoc
// @Summary Start a conversation
// @Description Creates a new active practice conversation for the authenticated user.
// @Tags conversations
// @Accept json
// @Produce json
// @Param startBody body conversation.StartRequest true "Topic and difficulty"
// @Success 201 {object} conversation.StartResponse "Conversation created"
// @Failure 400 {object} apperror.ErrorResponse "Validation failed"
// @Security BearerAuth
// @Router /api/conversation/start [post]
func (h *Handlers) HandleStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		var req StartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("Invalid request body", err))
			return
		}
		defer r.Body.Close()

		conv, greeting, err := h.service.Start(r.Context(), userID, req.Topic, req.Difficulty)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, &StartResponse{
			Success:      true,
			Message:      "Conversation started successfully",
			Conversation: conv,
			Greeting:     greeting,
		})
	}
}

// HandleSendMessage godoc
// @Summary Send a message
// @Description Appends the user's message to the conversation and returns the assistant's reply.
// @Tags conversations
// @Accept json
// @Produce json
// @Param id path int true "Conversation ID"
// @Param messageBody body conversation.MessageRequest true "Message content"
// @Success 200 {object} conversation.MessageResponse "Both turns of the exchange"
// @Failure 400 {object} apperror.ErrorResponse "Validation failed"
// @Failure 404 {object} apperror.ErrorResponse "Conversation not found"
// @Security BearerAuth
// @Router /api/conversation/{id}/message [post]
func (h *Handlers) HandleSendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		conversationID, err := pathID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("Invalid request body", err))
			return
		}
		defer r.Body.Close()

		userMsg, aiMsg, err := h.service.SendMessage(r.Context(), userID, conversationID, req.Message, req.MessageType)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, &MessageResponse{
			Success:     true,
			Message:     "Message processed successfully",
			UserMessage: userMsg,
			AIResponse:  aiMsg,
		})
	}
}

// HandleEnd godoc
// @Summary End a conversation
// @Description Completes an active conversation and returns the workflow's feedback when available.
// @Tags conversations
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} conversation.EndResponse "Conversation completed"
// @Failure 404 {object} apperror.ErrorResponse "Conversation not found"
// @Security BearerAuth
// @Router /api/conversation/{id}/end [post]
func (h *Handlers) HandleEnd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		conversationID, err := pathID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		conv, feedback, err := h.service.End(r.Context(), userID, conversationID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		resp := &EndResponse{
			Success:      true,
			Message:      "Conversation ended successfully",
			Conversation: conv,
		}
		if feedback != nil {
			resp.Feedback = &FeedbackView{
				Feedback:     feedback.Feedback,
				Improvements: feedback.Improvements,
				Score:        feedback.Score,
			}
		}
		auth.WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleHistory godoc
// @Summary Conversation history
// @Description Returns every message of a conversation the user owns, oldest first.
// @Tags conversations
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} conversation.HistoryResponse
// @Failure 404 {object} apperror.ErrorResponse "Conversation not found"
// @Security BearerAuth
// @Router /api/conversation/{id}/history [get]
func (h *Handlers) HandleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		conversationID, err := pathID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		messages, err := h.service.History(r.Context(), userID, conversationID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if messages == nil {
			messages = []Message{}
		}

		auth.WriteJSON(w, http.StatusOK, &HistoryResponse{
			Success:       true,
			Messages:      messages,
			TotalMessages: len(messages),
		})
	}
}

// HandleList godoc
// @Summary List conversations
// @Description Returns one page of the user's conversations with message counts, newest activity first.
// @Tags conversations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Filter by status" Enums(active, completed, paused, all)
// @Success 200 {object} conversation.ListResponse
// @Failure 400 {object} apperror.ErrorResponse "Invalid status filter"
// @Security BearerAuth
// @Router /api/conversation/list [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Access token required", nil))
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		status := r.URL.Query().Get("status")

		summaries, pagination, err := h.service.List(r.Context(), userID, page, limit, status)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, &ListResponse{
			Success:       true,
			Conversations: summaries,
			Pagination:    pagination,
		})
	}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, apperror.NewValidationError("Invalid conversation ID", err)
	}
	return id, nil
}
