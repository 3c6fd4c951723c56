package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	st, evalErrs, err := eng.Evaluate(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st == nil {
		t.Fatal("expected non-nil stage")
	}
	if st.PrimCount() != 0 {
		t.Errorf("expected empty stage, got %d nodes", st.PrimCount())
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine()

	st, evalErrs, err := eng.Evaluate(context.Background(), "   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st == nil {
		t.Fatal("expected non-nil stage")
	}
	if st.PrimCount() != 0 {
		t.Errorf("expected empty stage, got %d nodes", st.PrimCount())
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := NewEngine()

	// (+ 1 2) is valid Lisp that zygomys can evaluate but defines no prims.
	st, evalErrs, err := eng.Evaluate(context.Background(), "(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st == nil {
		t.Fatal("expected non-nil stage")
	}
	if st.PrimCount() != 0 {
		t.Errorf("expected empty stage (no prims defined), got %d nodes", st.PrimCount())
	}
}

func TestEvaluateMultipleExpressions(t *testing.T) {
	eng := NewEngine()

	source := `
(def x 10)
(def y 20)
(+ x y)
`
	st, evalErrs, err := eng.Evaluate(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st == nil {
		t.Fatal("expected non-nil stage")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	// Unmatched paren is a parse error.
	st, evalErrs, err := eng.Evaluate(context.Background(), "(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil stage on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}

	// The error message should contain something meaningful.
	msg := evalErrs[0].Message
	if msg == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	// Referencing an undefined symbol should produce an eval error.
	st, evalErrs, err := eng.Evaluate(context.Background(), "(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil stage on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	eng := NewEngine()

	// Put the error on line 2.
	source := "(+ 1 2)\n(+ 3"
	st, evalErrs, err := eng.Evaluate(context.Background(), source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil stage on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}

	// We expect the line number to be extracted from the zygomys error.
	// Line info may or may not be available depending on the error format;
	// we just check the error is populated.
	e := evalErrs[0]
	if e.Message == "" {
		t.Error("eval error message should not be empty")
	}
	// If line info was extracted, verify it's positive.
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	} else {
		t.Logf("no line info extracted (line=0), message=%q", e.Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	// No line info.
	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	s2 := e2.Error()
	if strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()

	// Multiple evaluations of the same source should produce equivalent results.
	for i := 0; i < 5; i++ {
		st, evalErrs, err := eng.Evaluate(context.Background(), "(+ 1 2)")
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if st == nil {
			t.Fatalf("iteration %d: expected non-nil stage", i)
		}
		if st.PrimCount() != 0 {
			t.Errorf("iteration %d: expected empty stage, got %d nodes", i, st.PrimCount())
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// zygomys has no cheap way to spin forever inside the sandbox, so the
	// timeout plumbing is exercised directly with a channel that never sends.
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult)

	start := time.Now()
	_, _, err := waitWithTimeout(context.Background(), ch, 50*time.Millisecond, 1, &mu, &gen)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got: %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
	if time.Since(start) > EvalTimeout {
		t.Error("custom timeout was not honored")
	}
}

func TestEvaluateContextCancelled(t *testing.T) {
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := waitWithTimeout(ctx, ch, EvalTimeout, 1, &mu, &gen)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestEvaluateCancelledBeforeStart(t *testing.T) {
	eng := NewEngine(WithTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the evaluation wins the race or the cancellation does; a
	// cancelled result must never carry a stage.
	st, _, err := eng.Evaluate(ctx, "(+ 1 2)")
	if err != nil && st != nil {
		t.Fatal("fatal error must not return a stage")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // Current generation is 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	// Pass generation 1 (stale).
	_, _, err := waitWithTimeout(context.Background(), ch, EvalTimeout, 1, &mu, &gen)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got: %v", err)
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestEvaluateFile(t *testing.T) {
	dir := t.TempDir()
	scenes := filepath.Join(dir, "scenes")
	if err := os.MkdirAll(scenes, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(scenes, "box.scene")
	if err := os.WriteFile(path, []byte(`(cube "/World/clean_object" :size 1)`), 0o644); err != nil {
		t.Fatal(err)
	}

	st, evalErrs, err := NewEngine().EvaluateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st.URL != filepath.ToSlash(path) {
		t.Errorf("URL = %q, want %q", st.URL, filepath.ToSlash(path))
	}
	if !st.Exists("/World/clean_object") {
		t.Error("expected /World/clean_object")
	}

	if _, _, err := NewEngine().EvaluateFile(context.Background(), filepath.Join(dir, "missing.scene")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "short line format",
			msg:      "line 3: bad arity",
			wantLine: 3,
			wantMsg:  "bad arity",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
