package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// OptionsEnv is the environment variable carrying the JSON-encoded options
// to an exec parser.
const OptionsEnv = "PARITY_PARSER_OPTIONS"

// waitDelay bounds how long Parse waits for output pipes after the process
// was killed; grandchildren may still hold them open.
const waitDelay = time.Second

// Exec runs an external parser process per invocation.
//
// The source text is written to the process's stdin and the options are
// passed as JSON in OptionsEnv. The process must print one envelope on
// stdout:
//
//	{"ast": {...}}
//	{"error": {"kind": "SyntaxError", "message": "Unexpected token"}}
//
// A process that cannot start, times out, or prints anything else produces
// a KindAdapter outcome carrying its stderr.
type Exec struct {
	name    string
	command string
	args    []string
	dir     string
	env     []string
	timeout time.Duration
}

// ExecOption configures an Exec adapter.
type ExecOption func(*Exec)

// WithDir sets the working directory of the parser process.
func WithDir(dir string) ExecOption {
	return func(e *Exec) { e.dir = dir }
}

// WithEnv adds KEY=VALUE entries to the parser process environment.
func WithEnv(env ...string) ExecOption {
	return func(e *Exec) { e.env = append(e.env, env...) }
}

// WithTimeout bounds each invocation. Zero means no limit beyond ctx.
func WithTimeout(d time.Duration) ExecOption {
	return func(e *Exec) { e.timeout = d }
}

// NewExec creates an exec adapter running command with args.
func NewExec(name, command string, args []string, opts ...ExecOption) *Exec {
	e := &Exec{name: name, command: command, args: args}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements Parser.
func (e *Exec) Name() string { return e.name }

// Parse implements Parser.
func (e *Exec) Parse(ctx context.Context, source string, opts Options) Outcome {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return Rejected(KindAdapter, fmt.Sprintf("encode options: %v", err))
	}

	cmd := exec.CommandContext(ctx, e.command, e.args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), e.env...)
	cmd.Env = append(cmd.Env, OptionsEnv+"="+string(optsJSON))
	cmd.Stdin = strings.NewReader(source)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Rejected(KindAdapter, fmt.Sprintf("%s: %v", e.command, ctxErr))
	}

	out, decodeErr := decodeEnvelope(stdout.Bytes())
	if decodeErr == nil {
		return out
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return Rejected(KindAdapter, fmt.Sprintf("%s exited with code %d: %s",
				e.command, exitErr.ExitCode(), strings.TrimSpace(stderr.String())))
		}
		return Rejected(KindAdapter, fmt.Sprintf("run %s: %v", e.command, runErr))
	}
	return Rejected(KindAdapter, fmt.Sprintf("decode %s output: %v", e.command, decodeErr))
}
