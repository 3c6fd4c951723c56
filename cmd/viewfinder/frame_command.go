package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/chazu/viewfinder/pkg/camsetup"
	"github.com/chazu/viewfinder/pkg/config"
	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/chazu/viewfinder/pkg/host"
)

type frameFlags struct {
	target     string
	repo       string
	cameraPath string
	play       bool
	noManifest bool
	plain      bool
}

func newFrameCommand(ctx *commandContext) *cobra.Command {
	var flags frameFlags

	cmd := &cobra.Command{
		Use:   "frame [scene-file]",
		Short: "Create a render camera framed on the target prim",
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
			h, err := NewApp(cfg, logger).LoadHost(cmd.Context(), scene, flags.play)
			if err != nil {
				return err
			}

			opts, err := setupOptions(cfg, flags, sceneUp(h))
			if err != nil {
				return err
			}
			setup, err := camsetup.New(h, opts, logger)
			if err != nil {
				return err
			}
			if !setup.CreateCamera() {
				return errors.New("camera setup failed")
			}
			res, _ := setup.LastResult()
			return renderFrameResult(cmd.OutOrStdout(), res, setup, useTable(cmd.OutOrStdout(), flags.plain))
		},
	}

	cmd.Flags().StringVar(&flags.target, "target", "", "Prim to frame (default from config)")
	cmd.Flags().StringVar(&flags.repo, "repo", "", "Repository root; overrides the stage location")
	cmd.Flags().StringVar(&flags.cameraPath, "camera-path", "", "Camera prim path (default from config)")
	cmd.Flags().BoolVar(&flags.play, "play", false, "Start the timeline before framing")
	cmd.Flags().BoolVar(&flags.noManifest, "no-manifest", false, "Do not write camera_pose.toml")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "Print plain lines instead of a table")
	return cmd
}

// sceneUp returns the loaded stage's up axis, or zero without a stage.
func sceneUp(h *host.Session) mgl64.Vec3 {
	if st := h.Stage(); st != nil {
		return st.Meta.UpAxis.Vec()
	}
	return mgl64.Vec3{}
}

func setupOptions(cfg *config.Config, flags frameFlags, up mgl64.Vec3) (camsetup.Options, error) {
	fo, err := cfg.FramingOptions(up)
	if err != nil {
		return camsetup.Options{}, err
	}
	opts := camsetup.Options{
		CameraPath:      cfg.Camera.Path,
		InitialPosition: mgl64.Vec3(cfg.Camera.InitialPosition),
		Width:           cfg.Camera.Width,
		Height:          cfg.Camera.Height,
		FrameRate:       cfg.Camera.FrameRate,
		Target:          cfg.Framing.Target,
		Framing:         fo,
		RepoPath:        cfg.Output.RepoPath,
		OutputSubdir:    cfg.Output.Subdir,
		WriteManifest:   cfg.Output.WriteManifest && !flags.noManifest,
	}
	if t := strings.TrimSpace(flags.target); t != "" {
		opts.Target = t
	}
	if p := strings.TrimSpace(flags.cameraPath); p != "" {
		opts.CameraPath = p
	}
	if r := strings.TrimSpace(flags.repo); r != "" {
		expanded, err := config.ExpandPath(r)
		if err != nil {
			return camsetup.Options{}, fmt.Errorf("resolve repo path: %w", err)
		}
		opts.RepoPath = expanded
	}
	return opts, nil
}

func renderFrameResult(w io.Writer, res camsetup.Result, setup *camsetup.Setup, table bool) error {
	target := res.TargetPath
	if res.Fallback {
		target += " (not found, aimed at origin)"
	}
	q := res.Pose.WXYZ()
	rows := [][]string{
		{"Camera", res.Camera.Path},
		{"Resolution", fmt.Sprintf("%dx%d @ %g fps", res.Camera.Width, res.Camera.Height, res.Camera.FrameRate)},
		{"Target", target},
		{"Look at", geom.FormatVec(res.Target)},
		{"Distance", fmt.Sprintf("%.4g", res.Distance)},
		{"Position", geom.FormatVec(res.Pose.Position)},
		{"Orientation (wxyz)", fmt.Sprintf("(%.6f, %.6f, %.6f, %.6f)", q[0], q[1], q[2], q[3])},
		{"Repository", setup.Layout().RepoPath},
		{"Output", setup.Layout().OutputDir},
	}
	if res.ManifestPath != "" {
		rows = append(rows, []string{"Manifest", res.ManifestPath})
	}

	if table {
		_, err := fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows))
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s: %s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}
