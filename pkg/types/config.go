// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration records shared by the devkit
// subcommands and their internal packages.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "devkit/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ExtractConfig holds settings for the extract command.
type ExtractConfig struct {
	// InputPath is the PDF to extract. Supplied by the caller; there is no default.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath receives the extracted text (default "branding_prd.txt").
	OutputPath string `json:"output_path" yaml:"output_path"`

	// ReportPath, when set, receives a YAML report describing the run.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`

	// Strict runs structural PDF validation before extracting text.
	Strict bool `json:"strict" yaml:"strict"`
}

// ProbeConfig holds settings for the chat-completion connectivity probe.
type ProbeConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the OpenAI-compatible API root (e.g. "https://openrouter.ai/api/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the model identifier requested from the gateway.
	Model string `json:"model" yaml:"model"`

	// APIKey is the bearer credential. It has no default.
	APIKey string `json:"-" yaml:"-"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// ShowKeyPrefix prints the first characters of APIKey before the first
	// request. Off unless explicitly requested.
	ShowKeyPrefix bool `json:"show_key_prefix" yaml:"show_key_prefix"`

	// TranscriptPath, when set, receives a YAML record of the conversation.
	TranscriptPath string `json:"transcript_path,omitempty" yaml:"transcript_path,omitempty"`
}

// HistoryConfig holds settings for the run history database.
type HistoryConfig struct {
	// Path is the SQLite database file (default ".devkit/history.db").
	Path string `json:"path" yaml:"path"`

	// Disabled turns off run recording.
	Disabled bool `json:"disabled" yaml:"disabled"`
}
