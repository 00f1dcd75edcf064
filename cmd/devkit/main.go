// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the devkit CLI: a PDF text extractor
// and a chat-completion connectivity probe.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/devkit/internal/logger"
	"github.com/pdiddy/devkit/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the devkit CLI.
var rootCmd = &cobra.Command{
	Use:   "devkit",
	Short: "Small developer utilities: PDF text extraction and API connectivity checks",
	Long: `devkit bundles two independent utilities.

extract pulls the plain text out of a PDF, page by page, into a UTF-8 text file.
probe sends a two-turn conversation to an OpenAI-compatible chat-completion
gateway to confirm that credentials work and that context is carried between
turns.

Every run is recorded in a local SQLite history unless --no-history is set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.New(cmd.ErrOrStderr(), viper.GetBool("verbose"))

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./devkit.yaml or ~/.config/devkit/devkit.yaml)")
	pf.Bool("verbose", false, "enable debug logging on stderr")
	pf.String("history-db", "", "run history database (default .devkit/history.db)")
	pf.Bool("no-history", false, "do not record this run in the history database")

	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("history.path", pf.Lookup("history-db"))
	viper.BindPFlag("history.disabled", pf.Lookup("no-history"))
}

func initConfig() {
	// .env values never override variables already set in the environment.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
		}
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("devkit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "devkit"))
		}
	}

	viper.SetEnvPrefix("DEVKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// reportedError marks an error the command has already printed, so main
// only sets the exit status for it.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// reportError prints err to w unless a command already printed it.
func reportError(w io.Writer, err error) {
	var r *reportedError
	if errors.As(err, &r) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
