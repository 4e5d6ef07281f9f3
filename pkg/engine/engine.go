// Package engine evaluates scene scripts. It wraps zygomys in a sandboxed
// environment and produces a scene.Scene from user source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/vecgeo/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code. Err holds the
// underlying Go error when a builtin failed, so callers can match
// geometry sentinels with errors.Is.
type EvalError struct {
	Line    int
	Message string
	Err     error
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func (e EvalError) Unwrap() error { return e.Err }

// EvalWarning represents a non-fatal warning about an evaluated scene.
// Line is the source line of the shape or placement, 0 if unknown.
type EvalWarning struct {
	Line    int
	Message string
	Subject string // shape or placement the warning is about
}

// EvalResult bundles the full output of an evaluation for callers that
// report rather than branch on the individual return values.
type EvalResult struct {
	Scene    *scene.Scene
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for scene evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism. Only the most recent call's
// result is delivered; older calls still in flight get ErrSuperseded.
type Engine struct {
	gens generations
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes Lisp source code and produces a new Scene.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	ctx, cancel := context.WithTimeout(context.Background(), EvalTimeout)
	defer cancel()
	return e.EvaluateContext(ctx, source)
}

// EvaluateContext is Evaluate bounded by ctx instead of EvalTimeout.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*scene.Scene, []EvalError, error) {
	ticket := e.gens.next()
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		s, evalErrs, err := e.evaluate(source)
		ch <- outcome{scene: s, errors: evalErrs, err: err}
	}()

	out, err := e.gens.await(ctx, ticket, ch)
	if err != nil {
		return nil, nil, err
	}
	return out.scene, out.errors, out.err
}

// Run evaluates source and folds scene validation into the result:
// validation errors become EvalErrors and validation warnings become
// EvalWarnings. A scene with validation errors is still returned.
func (e *Engine) Run(source string) (EvalResult, error) {
	s, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return EvalResult{}, err
	}
	res := EvalResult{Scene: s, Errors: evalErrs}
	if s == nil {
		return res, nil
	}

	v := scene.Validate(s)
	for _, f := range v.Errors {
		res.Errors = append(res.Errors, EvalError{Line: f.Line, Message: f.Subject + ": " + f.Message, Err: f})
	}
	for _, f := range v.Warnings {
		res.Warnings = append(res.Warnings, EvalWarning{Line: f.Line, Message: f.Message, Subject: f.Subject})
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scene.Scene, []EvalError, error) {
	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return scene.New(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := scene.New()
	b := newBuiltins(env, s)

	err := env.LoadString(rewriteSource(source, b.names))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		// A failing builtin knows its line and error chain; zygomys only
		// passes the message through.
		if f := b.failure; f != nil && strings.Contains(err.Error(), f.Message) {
			return nil, []EvalError{*f}, nil
		}
		return nil, parseZygomysError(err), nil
	}

	return s, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
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
