package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/devkit/internal/history"
	"github.com/pdiddy/devkit/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded extract and probe runs",
	Long: `History prints the most recent runs recorded in the local SQLite
history database, newest first.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("kind", "", "filter by run kind: extract or probe")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func historyConfig() types.HistoryConfig {
	return types.HistoryConfig{
		Path:     viper.GetString("history.path"),
		Disabled: viper.GetBool("history.disabled"),
	}
}

// recordRun stores run in the history database. Failures are logged and
// never affect the command's outcome.
func recordRun(ctx context.Context, cfg types.HistoryConfig, run history.Run) {
	if cfg.Disabled {
		return
	}
	store, err := history.Open(cfg)
	if err != nil {
		slog.Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()

	id, err := store.Record(ctx, run)
	if err != nil {
		slog.Warn("could not record run", "error", err)
		return
	}
	slog.Debug("recorded run", "id", id, "kind", run.Kind, "status", run.Status)
}

func runHistory(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	switch history.Kind(kind) {
	case "", history.KindExtract, history.KindProbe:
	default:
		return fmt.Errorf("unknown run kind %q (want extract or probe)", kind)
	}

	cfg := historyConfig()
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), history.Kind(kind), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tKIND\tSTATUS\tDURATION\tTARGET\tDETAIL")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Kind, r.Status,
			r.Duration.Round(time.Millisecond), r.Target, r.Detail)
	}
	return tw.Flush()
}
