package invoke

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeVault drops a shell script standing in for the vault binary.
func writeFakeVault(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake vault script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "authy")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestExecRunner_CapturesStdoutAndExitZero(t *testing.T) {
	t.Parallel()

	binary := writeFakeVault(t, `printf '{"name":"db-url","value":"s3cret","version":1}'`)
	r := NewExecRunner(binary, nil, nil, 0)

	res, err := r.Invoke(context.Background(), Invocation{Subcommand: "get", Args: []string{"db-url"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.JSONEq(t, `{"name":"db-url","value":"s3cret","version":1}`, res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestExecRunner_CapturesStderrAndExitCode(t *testing.T) {
	t.Parallel()

	binary := writeFakeVault(t, `printf '{"error":{"code":"not_found","message":"no such secret"}}' >&2; exit 3`)
	r := NewExecRunner(binary, nil, nil, 0)

	res, err := r.Invoke(context.Background(), Invocation{Subcommand: "get", Args: []string{"missing"}})
	require.NoError(t, err, "a non-zero exit is a protocol outcome, not a transport failure")
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "not_found")
	assert.Empty(t, res.Stdout)
}

func TestExecRunner_DeliversPayloadOverStdin(t *testing.T) {
	t.Parallel()

	binary := writeFakeVault(t, `cat`)
	r := NewExecRunner(binary, nil, nil, 0)

	res, err := r.Invoke(context.Background(), Invocation{
		Subcommand: "store",
		Args:       []string{"db-url"},
		Stdin:      "postgres://localhost/mydb",
	})
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/mydb", res.Stdout)
}

func TestExecRunner_ChildSeesCredentialOverlay(t *testing.T) {
	t.Parallel()

	binary := writeFakeVault(t, `printf '%s' "$AUTHY_PASSPHRASE"`)
	scope := NewCredentialScope("hunter2", "")
	defer scope.Destroy()
	r := NewExecRunner(binary, scope, nil, 0)

	res, err := r.Invoke(context.Background(), Invocation{Subcommand: "list"})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", res.Stdout)

	_, present := os.LookupEnv(EnvPassphrase)
	assert.False(t, present)
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	t.Parallel()

	r := NewExecRunner(filepath.Join(t.TempDir(), "no-such-binary"), nil, nil, 0)
	_, err := r.Invoke(context.Background(), Invocation{Subcommand: "init"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run")
}

func TestExecRunner_Timeout(t *testing.T) {
	t.Parallel()

	binary := writeFakeVault(t, `sleep 5`)
	r := NewExecRunner(binary, nil, nil, 100*time.Millisecond)

	start := time.Now()
	_, err := r.Invoke(context.Background(), Invocation{Subcommand: "get", Args: []string{"slow"}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second, "the child must be killed, not waited for")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "get", timeoutErr.Subcommand)
	assert.Equal(t, 100*time.Millisecond, timeoutErr.Timeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestExecRunner_TimeoutWithGrandchildHoldingPipe(t *testing.T) {
	t.Parallel()

	// The background sleep inherits stdout and outlives the shell. Killing
	// the child must not leave Invoke waiting on the inherited pipe.
	binary := writeFakeVault(t, "sleep 5 &\nsleep 5")
	r := NewExecRunner(binary, nil, nil, 100*time.Millisecond)

	start := time.Now()
	_, err := r.Invoke(context.Background(), Invocation{Subcommand: "get", Args: []string{"slow"}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second,
		"an inherited output pipe must not extend the deadline")

	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestExecRunner_ExitWithDescendantHoldingPipe(t *testing.T) {
	t.Parallel()

	// The child exits cleanly while a background descendant keeps the output
	// pipe open. The grace period abandons the pipe and the captured output
	// is the result.
	binary := writeFakeVault(t, "sleep 5 &\nprintf done")
	r := NewExecRunner(binary, nil, nil, 0)

	start := time.Now()
	res, err := r.Invoke(context.Background(), Invocation{Subcommand: "get", Args: []string{"db-url"}})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "done", res.Stdout)
}

func TestExecRunner_CallerCancellation(t *testing.T) {
	t.Parallel()

	binary := writeFakeVault(t, `sleep 5`)
	r := NewExecRunner(binary, nil, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := r.Invoke(ctx, Invocation{Subcommand: "get", Args: []string{"slow"}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)

	var timeoutErr *TimeoutError
	assert.False(t, errors.As(err, &timeoutErr),
		"caller cancellation is not a deadline expiry")
	assert.Contains(t, err.Error(), "cancelled")
	assert.NotContains(t, err.Error(), "timed out")
	assert.ErrorIs(t, err, context.Canceled)
}
