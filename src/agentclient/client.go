// Package agentclient is the HTTP implementation of the agent-call
// collaborator: one JSON POST per message, no retries, no client-imposed
// policy beyond a request timeout.
package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sbellin/palaver/src/dispatch"
)

const (
	defaultBaseURL = "https://api.palaver.dev/v1"
	defaultTimeout = 60 * time.Second

	invokePath = "/agents/invoke"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the remote agent endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ dispatch.AgentCaller = (*Client)(nil)

// NewClient creates a new agent API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		logger:     logger.With("component", "agent_client"),
	}
}

type invokeRequest struct {
	AgentID string        `json:"agent_id"`
	Prompt  string        `json:"prompt"`
	Context invokeContext `json:"context"`
}

type invokeContext struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type invokeEnvelope struct {
	Success  bool            `json:"success"`
	Response json.RawMessage `json:"response"`
}

// Call sends one prompt to the agent. A non-nil error is a transport
// failure; a result with Success=false is an application failure reported by
// the service.
func (c *Client) Call(ctx context.Context, prompt, agentID string, actx dispatch.AgentContext) (*dispatch.AgentResult, error) {
	logger := c.logger.With("agent_id", agentID, "session_id", actx.SessionID)
	logger.Debug("invoking agent")

	body, err := json.Marshal(invokeRequest{
		AgentID: agentID,
		Prompt:  prompt,
		Context: invokeContext{UserID: actx.UserID, SessionID: actx.SessionID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+invokePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("agent request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("agent returned error status", "status_code", resp.StatusCode)
		return nil, c.handleError(resp)
	}

	var env invokeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var response any
	if len(env.Response) > 0 {
		if err := json.Unmarshal(env.Response, &response); err != nil {
			return nil, fmt.Errorf("failed to decode response payload: %w", err)
		}
	}

	logger.Debug("agent call complete", "success", env.Success)
	return &dispatch.AgentResult{Success: env.Success, Response: response}, nil
}

// handleError maps a non-200 response to an APIError, keeping whatever
// detail the body carries.
func (c *Client) handleError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	return apiErr
}
