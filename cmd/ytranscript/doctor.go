package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/ytranscript/app"
	"github.com/kbukum/ytranscript/toolcheck"
	"github.com/kbukum/ytranscript/transcription/whisper"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the external tools the configuration depends on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}

			statuses := toolcheck.NewChecker(nil).CheckAll(cmd.Context(), app.Requirements(cfg))
			rows := make([][]string, 0, len(statuses)+1)
			for _, s := range statuses {
				rows = append(rows, []string{s.Name, statusLabel(s.Available, s.Optional), s.Version, s.Path, s.Detail})
			}
			if cfg.Speech.Backend == whisper.ProviderName {
				rows = append(rows, sidecarRow(cmd.Context(), cfg))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Status", "Version", "Path", "Notes"}, rows, nil,
			))

			if missing := toolcheck.Missing(statuses); len(missing) > 0 {
				names := make([]string, len(missing))
				for i, m := range missing {
					names[i] = m.Name
				}
				return fmt.Errorf("missing required tools: %s", strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func sidecarRow(ctx context.Context, cfg *app.Config) []string {
	provider, err := app.NewSpeechProvider(cfg.Speech)
	if err != nil {
		return []string{"speech-http", "error", "", cfg.Speech.URL, err.Error()}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return []string{"speech-http", statusLabel(provider.IsAvailable(ctx), !cfg.Resolver.FallbackEnabled), "", cfg.Speech.URL, "faster-whisper sidecar"}
}

func statusLabel(available, optional bool) string {
	switch {
	case available:
		return "ok"
	case optional:
		return "missing (optional)"
	default:
		return "MISSING"
	}
}
