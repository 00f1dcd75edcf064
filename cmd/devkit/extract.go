package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/devkit/internal/history"
	"github.com/pdiddy/devkit/internal/pdftext"
	"github.com/pdiddy/devkit/pkg/types"
)

const defaultOutputPath = "branding_prd.txt"

var extractCmd = &cobra.Command{
	Use:   "extract <pdf-path>",
	Short: "Extract the plain text of a PDF into a text file",
	Long: `Extract opens a PDF, concatenates the plain text of every page in
document order with no separators, and writes the result as UTF-8 to the
output file, replacing any previous content.

If the document cannot be read, nothing is written; the error kind and
message are reported and the command exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("output", "o", defaultOutputPath, "output text file")
	extractCmd.Flags().String("report", "", "write a YAML report of the run to this file")
	extractCmd.Flags().Bool("strict", false, "validate the PDF structure before extracting")

	viper.BindPFlag("extract.output_path", extractCmd.Flags().Lookup("output"))
	viper.BindPFlag("extract.report_path", extractCmd.Flags().Lookup("report"))
	viper.BindPFlag("extract.strict", extractCmd.Flags().Lookup("strict"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := types.ExtractConfig{
		InputPath:  args[0],
		OutputPath: viper.GetString("extract.output_path"),
		ReportPath: viper.GetString("extract.report_path"),
		Strict:     viper.GetBool("extract.strict"),
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutputPath
	}

	start := time.Now()
	res, err := extractToFile(cmd.Context(), pdftext.New(cfg.Strict), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())

	run := history.Run{
		Kind:      history.KindExtract,
		Target:    cfg.InputPath,
		Status:    history.StatusOK,
		Detail:    fmt.Sprintf("%d pages -> %s", res.Pages, cfg.OutputPath),
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

// extractToFile extracts cfg.InputPath and writes the text to cfg.OutputPath.
// Only successful extractions are written; a failure leaves any existing
// output untouched. The optional report is written in both cases.
func extractToFile(ctx context.Context, e *pdftext.Extractor, cfg types.ExtractConfig, out, errOut io.Writer) (pdftext.Result, error) {
	res := e.Extract(ctx, cfg.InputPath)

	written := ""
	if res.OK() {
		if err := pdftext.WriteText(cfg.OutputPath, res.Text); err != nil {
			var ee *pdftext.ExtractError
			if !errors.As(err, &ee) {
				ee = &pdftext.ExtractError{Kind: pdftext.KindWriteFailed, Path: cfg.OutputPath, Message: err.Error(), Err: err}
			}
			res.Err = ee
			res.Text = ""
		} else {
			written = cfg.OutputPath
		}
	}

	if cfg.ReportPath != "" {
		if err := pdftext.WriteReport(cfg.ReportPath, pdftext.NewReport(res, written)); err != nil {
			fmt.Fprintf(errOut, "warning: could not write report %s: %v\n", cfg.ReportPath, err)
		}
	}

	if !res.OK() {
		fmt.Fprintf(errOut, "extraction failed [%s]: %s\n", res.Err.Kind, res.Err.Message)
		return res, reported(res.Err)
	}

	fmt.Fprintln(out, "Done")
	return res, nil
}
