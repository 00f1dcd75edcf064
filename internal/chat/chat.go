// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat is a minimal client for OpenAI-compatible chat-completion
// endpoints such as the OpenRouter gateway.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/devkit/internal/httputil"
	"github.com/pdiddy/devkit/pkg/types"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a conversation.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

var (
	// ErrMissingAPIKey is returned before any request when no credential is configured.
	ErrMissingAPIKey = errors.New("API key is not set (set VITE_GEMINI_API_KEY, OPENROUTER_API_KEY, or .secrets/openrouter-api-key)")

	// ErrNoChoices is returned when a response carries no candidate replies.
	ErrNoChoices = errors.New("response contained no choices")
)

// Request is the chat-completion request body.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Choice is one candidate reply.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Response is the chat-completion response body.
type Response struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// First returns the first candidate's message.
func (r *Response) First() (Message, error) {
	if r == nil || len(r.Choices) == 0 {
		return Message{}, ErrNoChoices
	}
	return r.Choices[0].Message, nil
}

// APIError is a non-200 reply from the endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("chat API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// errorBody is the OpenAI-compatible error envelope.
type errorBody struct {
	Error struct {
		Message string          `json:"message"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
}

// Client sends chat-completion requests.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Model      string
	UserAgent  string
	MaxRetries int
}

// NewClient builds a Client from cfg. It fails when cfg carries no API key.
func NewClient(cfg types.ProbeConfig, hc *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		HTTPClient: hc,
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}, nil
}

// Complete sends messages to the chat-completion endpoint and blocks until
// the reply arrives, the request fails, or ctx is done.
func (c *Client) Complete(ctx context.Context, messages []Message) (*Response, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(Request{Model: c.Model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("chat API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing chat API response: %w", err)
	}
	return &out, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error.Message != "" {
		apiErr.Message = eb.Error.Message
		apiErr.Code = strings.Trim(string(eb.Error.Code), `"`)
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
