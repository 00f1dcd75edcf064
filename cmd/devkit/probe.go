package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/devkit/internal/chat"
	"github.com/pdiddy/devkit/internal/history"
	"github.com/pdiddy/devkit/internal/probe"
	"github.com/pdiddy/devkit/internal/secrets"
	"github.com/pdiddy/devkit/pkg/types"
)

const (
	defaultBaseURL   = "https://openrouter.ai/api/v1"
	defaultModel     = "google/gemini-2.0-flash-exp:free"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "devkit/0.1"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check connectivity and context passing with a chat-completion API",
	Long: `Probe sends a question to an OpenAI-compatible chat-completion gateway,
then sends a follow-up that carries the first question and the assistant's
reply, and prints both replies.

The API key is read from --api-key, DEVKIT_PROBE_API_KEY, VITE_GEMINI_API_KEY,
OPENROUTER_API_KEY, probe.api_key in the config file, or
.secrets/openrouter-api-key, in that order. The probe stops before any
request if no key is found.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	f := probeCmd.Flags()
	f.String("base-url", defaultBaseURL, "chat-completion API root")
	f.String("model", defaultModel, "model identifier")
	f.String("api-key", "", "API key (prefer the environment or .secrets/)")
	f.Duration("timeout", 0, "per-request timeout (default 60s)")
	f.Bool("show-key-prefix", false, "print the first 10 characters of the API key")
	f.String("transcript", "", "write a YAML transcript of the conversation to this file")

	viper.BindPFlag("probe.base_url", f.Lookup("base-url"))
	viper.BindPFlag("probe.model", f.Lookup("model"))
	viper.BindPFlag("probe.api_key", f.Lookup("api-key"))
	viper.BindPFlag("probe.timeout", f.Lookup("timeout"))
	viper.BindPFlag("probe.show_key_prefix", f.Lookup("show-key-prefix"))
	viper.BindPFlag("probe.transcript_path", f.Lookup("transcript"))
	viper.BindEnv("probe.api_key", "DEVKIT_PROBE_API_KEY", "VITE_GEMINI_API_KEY", "OPENROUTER_API_KEY")

	rootCmd.AddCommand(probeCmd)
}

func probeConfig() types.ProbeConfig {
	cfg := types.ProbeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("probe.timeout"),
			UserAgent: defaultUserAgent,
		},
		BaseURL:        viper.GetString("probe.base_url"),
		Model:          viper.GetString("probe.model"),
		APIKey:         secrets.First(loadedSecrets, secrets.OpenRouterAPIKey, viper.GetString("probe.api_key")),
		MaxRetries:     viper.GetInt("probe.max_retries"),
		ShowKeyPrefix:  viper.GetBool("probe.show_key_prefix"),
		TranscriptPath: viper.GetString("probe.transcript_path"),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return cfg
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg := probeConfig()

	start := time.Now()
	err := probeEndpoint(cmd.Context(), cfg, &http.Client{Timeout: cfg.Timeout}, cmd.OutOrStdout(), cmd.ErrOrStderr())

	run := history.Run{
		Kind:      history.KindProbe,
		Target:    cfg.Model + " @ " + cfg.BaseURL,
		Status:    history.StatusOK,
		StartedAt: start,
		Duration:  time.Since(start),
	}
	if err != nil {
		run.Status = history.StatusFailed
		run.Detail = err.Error()
	}
	recordRun(cmd.Context(), historyConfig(), run)

	return err
}

// probeEndpoint runs the two-turn probe against cfg. On failure it prints
// the error chain to errOut and a one-line summary to out.
func probeEndpoint(ctx context.Context, cfg types.ProbeConfig, hc *http.Client, out, errOut io.Writer) error {
	if err := probe.CheckKey(cfg.APIKey); err != nil {
		return err
	}

	client, err := chat.NewClient(cfg, hc)
	if err != nil {
		return err
	}

	tr, err := probe.Run(ctx, client, probe.Options{
		Model:         cfg.Model,
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		ShowKeyPrefix: cfg.ShowKeyPrefix,
	}, out)

	if cfg.TranscriptPath != "" && tr != nil {
		if werr := probe.WriteTranscript(cfg.TranscriptPath, tr); werr != nil {
			fmt.Fprintf(errOut, "warning: could not write transcript %s: %v\n", cfg.TranscriptPath, werr)
		}
	}

	if err != nil {
		printErrorChain(errOut, err)
		fmt.Fprintf(out, "\nAPI Error: %v\n", err)
		return reported(err)
	}
	return nil
}

// printErrorChain writes each wrapped layer of err on its own line,
// outermost first.
func printErrorChain(w io.Writer, err error) {
	fmt.Fprintln(w, "error chain (most recent last):")
	depth := 0
	for e := err; e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(w, "%s%T: %v\n", strings.Repeat("  ", depth+1), e, e)
		depth++
	}
}
