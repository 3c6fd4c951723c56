// Package engine evaluates scene scripts. It wraps zygomys in a sandboxed
// environment and produces a stage.Stage from user source code.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/viewfinder/pkg/stage"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code, or an invalid stage.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for scene evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides EvalTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for stage validation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout: EvalTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate takes scene source code and produces a new Stage.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns stage + nil errors + nil error
//   - On parse/eval/validation failure: returns nil stage + eval errors + nil error
//   - On fatal failure (timeout, cancellation, panic): returns nil + nil + error
func (e *Engine) Evaluate(ctx context.Context, source string) (*stage.Stage, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		st, evalErrs, err := e.evaluate(source)
		ch <- evalResult{stage: st, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ctx, ch, e.timeout, gen, &e.mu, &e.generation)
}

// EvaluateFile reads and evaluates a scene file. The resulting stage's URL
// is the file's absolute path, which is what repository discovery keys on.
func (e *Engine) EvaluateFile(ctx context.Context, path string) (*stage.Stage, []EvalError, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve scene path: %w", err)
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("read scene: %w", err)
	}
	st, evalErrs, err := e.Evaluate(ctx, string(src))
	if st != nil {
		st.URL = filepath.ToSlash(abs)
	}
	return st, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*stage.Stage, []EvalError, error) {
	st := stage.New()

	// Empty source is a valid program that produces an empty stage.
	if strings.TrimSpace(source) == "" {
		return st, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	var evalErrs []EvalError
	for _, f := range stage.Validate(st) {
		if f.Severity == stage.SeverityError {
			evalErrs = append(evalErrs, EvalError{Message: f.Error()})
			continue
		}
		e.logger.Warn("scene validation", "path", string(f.Path), "message", f.Message)
	}
	if len(evalErrs) > 0 {
		return nil, evalErrs, nil
	}
	return st, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
