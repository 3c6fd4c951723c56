package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/chazu/viewfinder/pkg/verify"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var objectPath string
	var groundPath string
	var play bool
	var plain bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "verify [scene-file]",
		Short: "Report the working directory, stage and key prims",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var scene string
			if len(args) == 1 {
				scene = args[0]
			}
			h, err := NewApp(cfg, logger).LoadHost(cmd.Context(), scene, play)
			if err != nil {
				return err
			}

			opts := verify.Options{
				ObjectPath: cfg.Verify.ObjectPath,
				GroundPath: cfg.Verify.GroundPath,
			}
			if objectPath != "" {
				opts.ObjectPath = objectPath
			}
			if groundPath != "" {
				opts.GroundPath = groundPath
			}

			report := verify.Run(h, opts)
			style := verify.StylePlain
			if useTable(cmd.OutOrStdout(), plain) {
				style = verify.StyleTable
			}
			if err := report.Render(cmd.OutOrStdout(), style); err != nil {
				return err
			}
			if strict && !report.Ready() {
				return errors.New("environment is not ready")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&objectPath, "object", "", "Object prim to look for (default from config)")
	cmd.Flags().StringVar(&groundPath, "ground", "", "Ground plane prim to look for (default from config)")
	cmd.Flags().BoolVar(&play, "play", false, "Start the timeline before reporting")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print plain lines instead of a table")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero unless a stage and both prims are present")
	return cmd
}
