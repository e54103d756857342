package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/ytranscript/app"
	"github.com/kbukum/ytranscript/bootstrap"
	"github.com/kbukum/ytranscript/errors"
	"github.com/kbukum/ytranscript/transcript"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		language string
		asJSON   bool
		fallback bool
	)
	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Resolve the transcript of one video and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fallback") {
				cfg.Resolver.FallbackEnabled = fallback
			}
			prepareLogging(cfg, true)

			a, err := app.Build(cfg, app.ModeTask, bootstrap.WithSummaryWriter(nil))
			if err != nil {
				return err
			}
			return a.RunTask(cmd.Context(), func(taskCtx context.Context) error {
				result, err := a.Resolver.Resolve(taskCtx, args[0], language)
				if err != nil {
					return reportError(cmd, err, asJSON)
				}
				if asJSON {
					return writeJSON(cmd, result)
				}
				printResult(cmd, result)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Caption and recognition language (default resolver.language)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the API response body instead of a table")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "Override resolver.fallback_enabled")
	return cmd
}

// reportError prints application errors the way the API would answer
// them. Context cancellation and unexpected errors are returned as-is.
func reportError(cmd *cobra.Command, err error, asJSON bool) error {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return err
	}
	if asJSON {
		if werr := writeJSON(cmd, appErr.ToResponse()); werr != nil {
			return werr
		}
		return errReported
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", appErr.Code, appErr.Message)
	return errReported
}

func printResult(cmd *cobra.Command, result *transcript.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "source: %s (%d segments)\n", result.Source, len(result.Segments))
	if len(result.Segments) == 0 {
		return
	}
	rows := make([][]string, 0, len(result.Segments))
	for i, s := range result.Segments {
		rows = append(rows, []string{strconv.Itoa(i + 1), formatTimestamp(s.Start), formatTimestamp(s.End), s.Text})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	))
}

// formatTimestamp renders seconds as HH:MM:SS.mmm.
func formatTimestamp(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, d/time.Millisecond)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
