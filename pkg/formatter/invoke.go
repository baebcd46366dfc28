package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/yaklabco/regionfmt/internal/logging"
)

// waitDelay bounds how long Run waits for output pipes after the process
// is killed.
const waitDelay = 2 * time.Second

// Invoker runs the formatter binary.
type Invoker struct {
	// Binary is a path or a name looked up in PATH. Empty means DefaultBinary.
	Binary string

	// Timeout kills the formatter after this long. Zero disables the limit.
	Timeout time.Duration

	// Env is appended to the inherited environment.
	Env []string
}

// NewInvoker creates an Invoker for binary.
func NewInvoker(binary string, timeout time.Duration) *Invoker {
	return &Invoker{Binary: binary, Timeout: timeout}
}

func (i *Invoker) binary() string {
	if i.Binary == "" {
		return DefaultBinary
	}
	return i.Binary
}

// LookPath resolves the formatter binary.
func (i *Invoker) LookPath() (string, error) {
	path, err := exec.LookPath(i.binary())
	if err != nil {
		return "", &SubprocessError{Binary: i.binary(), ExitCode: -1, Err: err}
	}
	return path, nil
}

// Run sends inv.Content to the formatter and returns its stdout. The call
// blocks until the process exits.
func (i *Invoker) Run(ctx context.Context, inv Invocation) ([]byte, error) {
	return i.exec(ctx, inv.Content, inv.Args())
}

// Version returns the first line the formatter prints for --version.
func (i *Invoker) Version(ctx context.Context) (string, error) {
	stdout, err := i.exec(ctx, nil, []string{"--version"})
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(stdout)), "\n")
	return line, nil
}

func (i *Invoker) exec(ctx context.Context, stdin []byte, args []string) ([]byte, error) {
	logger := logging.FromContext(ctx)

	path, err := i.LookPath()
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.WaitDelay = waitDelay
	if len(i.Env) > 0 {
		cmd.Env = append(os.Environ(), i.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running formatter", logging.FieldBinary, path, logging.FieldArgs, strings.Join(args, " "))

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr == nil {
		logger.Debug("formatter finished", logging.FieldBinary, path, logging.FieldDuration, elapsed)
		return stdout.Bytes(), nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, fmt.Errorf("%w: %s did not finish within %s", ErrTimeout, i.binary(), i.Timeout)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("run %s: %w", i.binary(), ctxErr)
	}

	subErr := &SubprocessError{Binary: i.binary(), ExitCode: -1, Stderr: stderr.String(), Err: runErr}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		subErr.ExitCode = exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			subErr.Signal = status.Signal().String()
		}
		subErr.Err = nil
	}

	logger.Debug("formatter failed",
		logging.FieldBinary, path,
		logging.FieldExitCode, subErr.ExitCode,
		logging.FieldSignal, subErr.Signal,
		logging.FieldDuration, elapsed)

	return nil, subErr
}
