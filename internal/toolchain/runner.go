package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/flashtalk/fwbuild/internal/ctxlog"
)

// Default per-invocation timeouts. Probes are quick; individual compile
// units can be slow on small hosts; the final link of user code plus HAL
// is the longest single step.
const (
	ProbeTimeout   = 5 * time.Second
	CompileTimeout = 60 * time.Second
	ArchiveTimeout = 30 * time.Second
	LinkTimeout    = 120 * time.Second
	ObjcopyTimeout = 10 * time.Second
)

// Command describes one child-process invocation.
type Command struct {
	Path    string
	Args    []string
	Stdin   string
	Timeout time.Duration
}

// Output is the captured result of a finished (or failed) invocation.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// Runner executes toolchain commands. The error return covers process
// startup problems (binary missing, timeout); a non-zero exit is reported
// through Output.ExitCode with a nil error so callers can read stderr.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ErrTimeout is returned (wrapped) when an invocation exceeds its bound.
var ErrTimeout = errors.New("toolchain invocation timed out")

// ExecRunner runs commands via os/exec with a context timeout.
type ExecRunner struct{}

// NewExecRunner returns the production Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd, enforcing cmd.Timeout when set. A timeout surfaces as
// ErrTimeout rather than a crash; the caller decides what to do with it.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	logger := ctxlog.FromContext(ctx)

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	proc := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	proc.Stdout = &stdout
	proc.Stderr = &stderr
	if cmd.Stdin != "" {
		proc.Stdin = strings.NewReader(cmd.Stdin)
	}

	logger.Debug("Running toolchain command.", "path", cmd.Path, "args", cmd.Args, "timeout", cmd.Timeout)
	err := proc.Run()

	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if ctx.Err() == context.DeadlineExceeded {
		out.TimedOut = true
		return out, ErrTimeout
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	if err != nil {
		// Startup failure: binary not found, permission, etc.
		return out, err
	}
	return out, nil
}
