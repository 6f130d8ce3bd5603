// Package gateway is the stateless relay to the external AI workflow
// service (n8n). Each operation posts a fixed-shape JSON payload to the
// webhook with a bearer credential and a per-call timeout, and maps the
// remote response into a local result. Remote failures are translated, never
// passed through raw: an error status surfaces the remote status code, an
// unreachable or timed-out endpoint surfaces a generic unavailable error.
// Every call, success or failure, is mirrored into the audit log.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auditlog"
	"github.com/user/tutoria-go/config"
)

const userAgent = "tutoria-backend/1.0"

// Per-operation timeouts.
const (
	processTimeout  = 30 * time.Second
	sessionTimeout  = 15 * time.Second
	feedbackTimeout = 20 * time.Second
	healthTimeout   = 5 * time.Second
)

// Client calls the workflow webhook.
type Client struct {
	webhookURL string
	apiKey     string
	httpClient *http.Client
	audit      *auditlog.Logger
}

// NewClient creates a gateway client.
func NewClient(cfg *config.GatewayConfig, audit *auditlog.Logger) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
		audit:      audit,
	}
}

// ConversationData is the input to ProcessConversation.
type ConversationData struct {
	UserID         int
	ConversationID int
	Message        string
	AudioData      string
}

// ProcessResult is the mapped response of ProcessConversation.
type ProcessResult struct {
	ExecutionID string
	Reply       string
	Data        map[string]interface{}
}

// SessionData is the input to StartSession.
type SessionData struct {
	UserID      int
	Level       string
	Preferences []string
}

// SessionResult is the mapped response of StartSession.
type SessionResult struct {
	SessionID string
	Topics    []string
	Greeting  string
}

// FeedbackData is the input to GetFeedback.
type FeedbackData struct {
	ConversationID int
	Transcript     string
	Duration       int
}

// FeedbackResult is the mapped response of GetFeedback.
type FeedbackResult struct {
	Feedback     string
	Improvements []string
	Score        float64
}

// HealthResult is the outcome of HealthCheck.
type HealthResult struct {
	Healthy  bool
	Response map[string]interface{}
}

// ProcessConversation forwards a conversation turn to the workflow and
// returns its reply.
func (c *Client) ProcessConversation(ctx context.Context, data ConversationData) (*ProcessResult, error) {
	payload := map[string]interface{}{
		"userId":         data.UserID,
		"conversationId": data.ConversationID,
		"message":        data.Message,
		"audioData":      data.AudioData,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"language":       "spanish",
		"action":         "process_conversation",
	}

	resp, err := c.post(ctx, "process_conversation", payload, processTimeout)
	if err != nil {
		return nil, err
	}

	return &ProcessResult{
		ExecutionID: stringField(resp, "executionId"),
		Reply:       stringField(resp, "reply"),
		Data:        resp,
	}, nil
}

// StartSession asks the workflow for topic suggestions and a greeting for a
// new practice session.
func (c *Client) StartSession(ctx context.Context, data SessionData) (*SessionResult, error) {
	level := data.Level
	if level == "" {
		level = "intermediate"
	}
	preferences := data.Preferences
	if preferences == nil {
		preferences = []string{}
	}
	payload := map[string]interface{}{
		"userId":      data.UserID,
		"userLevel":   level,
		"preferences": preferences,
		"action":      "start_session",
	}

	resp, err := c.post(ctx, "start_session", payload, sessionTimeout)
	if err != nil {
		return nil, err
	}

	return &SessionResult{
		SessionID: stringField(resp, "sessionId"),
		Topics:    stringSliceField(resp, "suggestedTopics"),
		Greeting:  stringField(resp, "greeting"),
	}, nil
}

// GetFeedback asks the workflow to grade a finished conversation.
func (c *Client) GetFeedback(ctx context.Context, data FeedbackData) (*FeedbackResult, error) {
	payload := map[string]interface{}{
		"conversationId": data.ConversationID,
		"transcript":     data.Transcript,
		"duration":       data.Duration,
		"action":         "generate_feedback",
	}

	resp, err := c.post(ctx, "generate_feedback", payload, feedbackTimeout)
	if err != nil {
		return nil, err
	}

	result := &FeedbackResult{
		Feedback:     stringField(resp, "feedback"),
		Improvements: stringSliceField(resp, "suggestions"),
	}
	if score, ok := resp["score"].(float64); ok {
		result.Score = score
	}
	return result, nil
}

// HealthCheck probes the workflow's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) *HealthResult {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	healthURL := c.healthURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return &HealthResult{Healthy: false}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.audit.Error("workflow health check failed", err, nil)
		return &HealthResult{Healthy: false}
	}
	defer resp.Body.Close()

	body := decodeObject(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.audit.Error("workflow health check unhealthy", fmt.Errorf("status %d", resp.StatusCode), nil)
		return &HealthResult{Healthy: false, Response: body}
	}

	return &HealthResult{Healthy: true, Response: body}
}

// healthURL points at the service root's /health endpoint next to the
// webhook path.
func (c *Client) healthURL() string {
	u, err := url.Parse(c.webhookURL)
	if err != nil {
		return c.webhookURL
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String()
}

// post sends one webhook call and maps the outcome. requestId ties the
// audit entries of a call together.
func (c *Client) post(ctx context.Context, action string, payload map[string]interface{}, timeout time.Duration) (map[string]interface{}, error) {
	requestID := uuid.NewString()
	payload["requestId"] = requestID

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.NewInternalError("failed to encode workflow payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, apperror.NewInternalError("failed to build workflow request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	meta := map[string]interface{}{"action": action, "requestId": requestID}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Unreachable or timed out: the caller gets a generic unavailable
		// error, never the transport detail.
		c.audit.Error("workflow call failed", err, meta)
		return nil, apperror.NewExternalServiceError("AI workflow service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("workflow responded %d: %s", resp.StatusCode, string(bodyText))
		c.audit.Error("workflow call rejected", err, meta)
		return nil, apperror.NewExternalServiceError(
			fmt.Sprintf("AI workflow error: status %d", resp.StatusCode), err)
	}

	body := decodeObject(resp.Body)
	c.audit.Info("workflow call completed", meta)
	return body, nil
}

func decodeObject(r io.Reader) map[string]interface{} {
	var body map[string]interface{}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil
	}
	return body
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func stringSliceField(m map[string]interface{}, key string) []string {
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, len(raw))
	for i, v := range raw {
		result[i] = fmt.Sprint(v)
	}
	return result
}
