package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/ytranscript/app"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			prepareLogging(cfg, false)
			a, err := app.Build(cfg, app.ModeServe)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}
