package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/authykit/authy-go/internal/logging"
)

// waitDelay bounds how long a finished or killed invocation may hold its
// output pipes open. A descendant of the vault process that inherits stdout
// would otherwise keep cmd.Run blocked long after the deadline killed the
// child.
const waitDelay = time.Second

// TimeoutError reports that the per-invocation deadline expired and the
// child was killed. It wraps context.DeadlineExceeded.
type TimeoutError struct {
	Subcommand string
	Timeout    time.Duration
	Err        error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("invocation of %q timed out after %s", e.Subcommand, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Runner executes one vault invocation and reports its outcome.
//
// A non-zero exit from the vault process is part of the protocol, not a
// transport failure: implementations return the Result with its exit code and
// a nil error. The error return is reserved for failures to run the process
// at all (spawn errors, environment assembly, timeout).
type Runner interface {
	Invoke(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner runs the real vault binary, one independent child process per
// invocation. There is no process reuse and no shared invocation state, so a
// single ExecRunner is safe for concurrent use.
type ExecRunner struct {
	binary  string
	scope   *CredentialScope
	logger  *logging.Logger
	timeout time.Duration // zero means block until the child exits
}

// NewExecRunner creates a runner for an already-located binary. Binary
// lookup, and the distinct executable-not-found failure, happen at client
// construction before any runner exists.
func NewExecRunner(binary string, scope *CredentialScope, logger *logging.Logger, timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		binary:  binary,
		scope:   scope,
		logger:  logger,
		timeout: timeout,
	}
}

// Invoke spawns the vault process, feeds the payload over stdin when one is
// supplied, and blocks until the child exits. Both output streams and the
// exit code are captured as the Result.
func (r *ExecRunner) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	env, err := r.scope.Environ()
	if err != nil {
		return Result{}, err
	}

	cmd := exec.CommandContext(ctx, r.binary, inv.Argv()...)
	cmd.Env = env
	cmd.WaitDelay = waitDelay
	if inv.Stdin != "" {
		// The payload travels over the input stream and the stream is closed
		// when the reader drains; it must never appear in the argument vector.
		cmd.Stdin = strings.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// The argv never contains secret material, so it is safe to log.
	r.logger.Debug("invoking %s %s", filepath.Base(r.binary), strings.Join(inv.Argv(), " "))

	runErr := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		if ctx.Err() != nil {
			// The child was killed by the context, not by its own logic;
			// its exit code carries no protocol meaning.
			return Result{}, r.contextFailure(inv, ctx.Err())
		}
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	if errors.Is(runErr, exec.ErrWaitDelay) {
		// The child exited but a descendant still held its output pipe; the
		// output captured before the grace period lapsed is the result.
		res.ExitCode = cmd.ProcessState.ExitCode()
		return res, nil
	}

	if ctx.Err() != nil {
		return Result{}, r.contextFailure(inv, ctx.Err())
	}

	return Result{}, fmt.Errorf("failed to run %s: %w", r.binary, runErr)
}

// contextFailure distinguishes the configured per-invocation deadline from a
// cancellation arriving through the caller's context.
func (r *ExecRunner) contextFailure(inv Invocation, cause error) error {
	if r.timeout > 0 && errors.Is(cause, context.DeadlineExceeded) {
		return &TimeoutError{Subcommand: inv.Subcommand, Timeout: r.timeout, Err: cause}
	}
	return fmt.Errorf("invocation of %q cancelled before completion: %w", inv.Subcommand, cause)
}
