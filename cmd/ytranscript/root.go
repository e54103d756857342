package main

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kbukum/ytranscript/app"
)

// errReported marks a failure whose details were already written.
var errReported = errors.New("reported")

type commandContext struct {
	configFlag *string

	once sync.Once
	cfg  *app.Config
	err  error
}

func (c *commandContext) config() (*app.Config, error) {
	c.once.Do(func() {
		c.cfg, c.err = app.Load(strings.TrimSpace(*c.configFlag))
	})
	return c.cfg, c.err
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	root := &cobra.Command{
		Use:           "ytranscript",
		Short:         "Fetch time-aligned transcripts for YouTube videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["config"] == "skip" {
				return nil
			}
			_, err := ctx.config()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	root.AddCommand(
		newServeCommand(ctx),
		newExtractCommand(ctx),
		newDoctorCommand(ctx),
		newTokenCommand(ctx),
		newVersionCommand(),
	)
	return root
}

// prepareLogging picks console output on a terminal and JSON otherwise,
// unless the config names a format. Logs always go to stderr so stdout
// stays parseable for the task commands.
func prepareLogging(cfg *app.Config, quiet bool) {
	tty := isTerminal(os.Stderr)
	if cfg.Logging.Format == "" {
		if tty {
			cfg.Logging.Format = "console"
		} else {
			cfg.Logging.Format = "json"
		}
	}
	if !tty {
		cfg.Logging.NoColor = true
	}
	if quiet && cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	cfg.Logging.Output = "stderr"
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
