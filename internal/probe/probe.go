// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package probe checks round-trip connectivity with a chat-completion
// endpoint across two turns that share conversational context.
package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/devkit/internal/chat"
)

const (
	// FirstPrompt is the opening user message.
	FirstPrompt = "How many r's are in the word 'strawberry'?"
	// FollowUpPrompt is sent after the assistant's first reply.
	FollowUpPrompt = "Are you sure? Think carefully."

	keyPrefixLen = 10
)

// Completer sends one chat-completion request.
type Completer interface {
	Complete(ctx context.Context, messages []chat.Message) (*chat.Response, error)
}

// Options controls what Run prints.
type Options struct {
	Model   string
	BaseURL string

	// APIKey is only used for the optional prefix print.
	APIKey        string
	ShowKeyPrefix bool
}

// Transcript records one probe run.
type Transcript struct {
	Model     string         `yaml:"model"`
	BaseURL   string         `yaml:"base_url"`
	StartedAt time.Time      `yaml:"started_at"`
	Messages  []chat.Message `yaml:"messages"`
	Replies   []string       `yaml:"replies"`
}

// CheckKey fails fast when no credential is configured.
func CheckKey(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return chat.ErrMissingAPIKey
	}
	return nil
}

// KeyPrefix returns the first ten characters of key followed by "...".
func KeyPrefix(key string) string {
	if len(key) > keyPrefixLen {
		key = key[:keyPrefixLen]
	}
	return key + "..."
}

// Run performs the two-turn exchange and prints each reply to w. The second
// request carries the first prompt, the assistant's first reply verbatim,
// and the follow-up prompt. Whatever was exchanged before a failure is
// still returned in the transcript.
func Run(ctx context.Context, c Completer, opts Options, w io.Writer) (*Transcript, error) {
	tr := &Transcript{
		Model:     opts.Model,
		BaseURL:   opts.BaseURL,
		StartedAt: time.Now().UTC(),
	}

	if opts.ShowKeyPrefix {
		fmt.Fprintf(w, "Using API Key: %s\n", KeyPrefix(opts.APIKey))
	}

	conv := chat.NewConversation(FirstPrompt)
	tr.Messages = conv.Messages()

	fmt.Fprintln(w, "Making first request...")
	first, err := send(ctx, c, conv)
	if err != nil {
		return tr, fmt.Errorf("first request: %w", err)
	}
	tr.Replies = append(tr.Replies, first.Content)
	fmt.Fprintln(w, "First response received:")
	fmt.Fprintln(w, first.Content)

	if err := conv.Append(first); err != nil {
		return tr, fmt.Errorf("first request: %w", err)
	}
	if err := conv.Append(chat.Message{Role: chat.RoleUser, Content: FollowUpPrompt}); err != nil {
		return tr, fmt.Errorf("second request: %w", err)
	}
	tr.Messages = conv.Messages()

	fmt.Fprintln(w, "\nMaking second request...")
	second, err := send(ctx, c, conv)
	if err != nil {
		return tr, fmt.Errorf("second request: %w", err)
	}
	tr.Replies = append(tr.Replies, second.Content)
	fmt.Fprintln(w, "Second response received:")
	fmt.Fprintln(w, second.Content)
	fmt.Fprintln(w, "\nAPI Connection Successful!")

	return tr, nil
}

// send completes the conversation and returns the first candidate. A reply
// with an empty role is treated as coming from the assistant.
func send(ctx context.Context, c Completer, conv *chat.Conversation) (chat.Message, error) {
	resp, err := c.Complete(ctx, conv.Messages())
	if err != nil {
		return chat.Message{}, err
	}
	msg, err := resp.First()
	if err != nil {
		return chat.Message{}, err
	}
	if msg.Role == "" {
		msg.Role = chat.RoleAssistant
	}
	return msg, nil
}

// WriteTranscript marshals tr to a YAML file at path.
func WriteTranscript(path string, tr *Transcript) error {
	data, err := yaml.Marshal(tr)
	if err != nil {
		return fmt.Errorf("marshaling transcript: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
