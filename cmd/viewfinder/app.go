package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chazu/viewfinder/pkg/config"
	"github.com/chazu/viewfinder/pkg/engine"
	"github.com/chazu/viewfinder/pkg/host"
	"github.com/chazu/viewfinder/pkg/kernel"
	"github.com/chazu/viewfinder/pkg/kernel/sdfx"
	"github.com/chazu/viewfinder/pkg/logging"
)

// App turns scene files into hosts the workflows can run against.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	logger *slog.Logger
	fps    float64
}

// SceneError lists the evaluation errors of a scene that did not load.
type SceneError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *SceneError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return fmt.Sprintf("scene %s: %s", e.Path, strings.Join(msgs, "; "))
}

// NewApp creates an App with an engine and the sdfx kernel.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	logger = logging.NewComponentLogger(logger, "scene")
	return &App{
		engine: engine.NewEngine(engine.WithTimeout(cfg.EvalTimeout()), engine.WithLogger(logger)),
		kernel: sdfx.New(),
		logger: logger,
		fps:    cfg.Scene.TimelineFPS,
	}
}

// LoadHost evaluates the scene at path and wraps the result in a session.
// An empty path yields a session with no stage loaded.
func (a *App) LoadHost(ctx context.Context, path string, playing bool) (*host.Session, error) {
	tl := host.Timeline{FPS: a.fps}
	if strings.TrimSpace(path) == "" {
		a.logger.Debug("no scene given, host has no stage")
		h := host.NewEmptySession(tl)
		h.SetPlaying(playing)
		return h, nil
	}

	st, evalErrs, err := a.engine.EvaluateFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			a.logger.Error("scene evaluation error",
				slog.String("scene", path),
				slog.Int("line", e.Line),
				slog.String("message", e.Message),
			)
		}
		return nil, &SceneError{Path: path, Errors: evalErrs}
	}

	if st.Meta.TimeCodesPerSecond > 0 {
		tl.FPS = st.Meta.TimeCodesPerSecond
	}
	h := host.NewSession(st, a.kernel, tl)
	h.SetPlaying(playing)
	tl = h.Timeline()
	a.logger.Info("scene loaded",
		slog.String("url", st.URL),
		slog.Int("prims", st.PrimCount()),
		slog.String("up_axis", st.Meta.UpAxis.String()),
		slog.Float64("fps", tl.FPS),
		slog.Bool("playing", tl.Playing),
	)
	return h, nil
}
