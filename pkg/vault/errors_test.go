package vault

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authykit/authy-go/internal/invoke"
)

func envelopeBody(code, message string) string {
	return fmt.Sprintf(`{"error":{"code":%q,"message":%q}}`, code, message)
}

func TestMapError_ClassifiesByExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		exitCode int
		stderr   string
		wantKind Kind
		wantCode string
		wantMsg  string
	}{
		{
			name:     "auth failed",
			exitCode: 2,
			stderr:   envelopeBody("auth_failed", "passphrase rejected"),
			wantKind: KindAuthFailed,
			wantCode: "auth_failed",
			wantMsg:  "passphrase rejected",
		},
		{
			name:     "not found",
			exitCode: 3,
			stderr:   envelopeBody("not_found", "no secret named db-url"),
			wantKind: KindNotFound,
			wantCode: "not_found",
			wantMsg:  "no secret named db-url",
		},
		{
			name:     "policy denied",
			exitCode: 4,
			stderr:   envelopeBody("access_denied", "scope ci cannot read db-url"),
			wantKind: KindPolicyDenied,
			wantCode: "access_denied",
		},
		{
			name:     "already exists",
			exitCode: 5,
			stderr:   envelopeBody("already_exists", "db-url exists; use --force"),
			wantKind: KindAlreadyExists,
			wantCode: "already_exists",
		},
		{
			name:     "vault not initialized",
			exitCode: 7,
			stderr:   envelopeBody("vault_not_initialized", "run authy init first"),
			wantKind: KindNotInitialized,
			wantCode: "vault_not_initialized",
		},
		{
			name:     "unmapped exit with envelope stays generic",
			exitCode: 9,
			stderr:   envelopeBody("disk_full", "cannot write vault"),
			wantKind: KindGeneric,
			wantCode: "disk_full",
			wantMsg:  "cannot write vault",
		},
		{
			name:     "string code never overrides exit code",
			exitCode: 3,
			stderr:   envelopeBody("secret_missing", "gone"),
			wantKind: KindNotFound,
			wantCode: "secret_missing",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(invoke.Result{ExitCode: tt.exitCode, Stderr: tt.stderr})
			assert.Equal(t, tt.wantKind, mapped.Kind)
			assert.Equal(t, tt.exitCode, mapped.ExitCode)
			assert.Equal(t, tt.wantCode, mapped.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, mapped.Message)
			}
		})
	}
}

func TestMapError_UnparseableBodyIsGeneric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		exitCode int
		stderr   string
		wantCode string
	}{
		{name: "plain text", exitCode: 1, stderr: "something went wrong\n", wantCode: CodeInternalError},
		{name: "plain text on mapped exit", exitCode: 3, stderr: "panic: index out of range", wantCode: CodeNotFound},
		{name: "invalid token exit", exitCode: 6, stderr: "bad token", wantCode: CodeInvalidToken},
		{name: "unknown exit", exitCode: 42, stderr: "???", wantCode: CodeUnknown},
		{name: "envelope without code", exitCode: 2, stderr: `{"error":{"message":"no code"}}`, wantCode: CodeAuthFailed},
		{name: "truncated json", exitCode: 5, stderr: `{"error":{"code":"already`, wantCode: CodeAlreadyExists},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(invoke.Result{ExitCode: tt.exitCode, Stderr: tt.stderr})
			assert.Equal(t, KindGeneric, mapped.Kind,
				"classification requires a well-formed envelope")
			assert.Equal(t, tt.exitCode, mapped.ExitCode)
			assert.Equal(t, tt.wantCode, mapped.Code)
		})
	}
}

func TestMapError_MessageFallsBackToStderrThenSynthesized(t *testing.T) {
	t.Parallel()

	withText := MapError(invoke.Result{ExitCode: 1, Stderr: "  something went wrong  \n"})
	assert.Equal(t, "something went wrong", withText.Message)
	assert.Contains(t, withText.Error(), "something went wrong")

	empty := MapError(invoke.Result{ExitCode: 1})
	assert.Equal(t, "authy exited with code 1", empty.Message)
}

func TestError_SentinelMatching(t *testing.T) {
	t.Parallel()

	notFound := MapError(invoke.Result{ExitCode: 3, Stderr: envelopeBody("not_found", "missing")})
	assert.True(t, errors.Is(notFound, ErrSecretNotFound))
	assert.False(t, errors.Is(notFound, ErrAuthFailed))
	assert.False(t, errors.Is(notFound, ErrVaultNotInitialized))

	var typed *Error
	require.True(t, errors.As(notFound, &typed))
	assert.Equal(t, 3, typed.ExitCode)
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	make := func(exit int, code string) error {
		return MapError(invoke.Result{ExitCode: exit, Stderr: envelopeBody(code, "msg")})
	}

	assert.True(t, IsNotFound(make(3, "not_found")))
	assert.True(t, IsAuthFailed(make(2, "auth_failed")))
	assert.True(t, IsAlreadyExists(make(5, "already_exists")))
	assert.True(t, IsPolicyDenied(make(4, "access_denied")))
	assert.True(t, IsNotInitialized(make(7, "vault_not_initialized")))

	assert.False(t, IsNotFound(make(2, "auth_failed")))
	assert.False(t, IsNotFound(errors.New("unrelated")))
	assert.False(t, IsNotFound(nil))
}

func TestMapRunnerError(t *testing.T) {
	t.Parallel()

	t.Run("deadline expiry becomes a typed timeout", func(t *testing.T) {
		t.Parallel()

		mapped := mapRunnerError(&invoke.TimeoutError{
			Subcommand: "list",
			Timeout:    250 * time.Millisecond,
			Err:        context.DeadlineExceeded,
		})

		var typed *Error
		require.True(t, errors.As(mapped, &typed))
		assert.Equal(t, KindGeneric, typed.Kind)
		assert.Equal(t, CodeTimeout, typed.Code)
		assert.Equal(t, -1, typed.ExitCode)
		assert.Contains(t, typed.Message, "timed out after 250ms")
		assert.True(t, IsTimeout(mapped))
	})

	t.Run("other transport errors pass through", func(t *testing.T) {
		t.Parallel()

		spawnErr := errors.New("fork/exec: resource temporarily unavailable")
		assert.Same(t, spawnErr, mapRunnerError(spawnErr))
		assert.False(t, IsTimeout(spawnErr))
	})
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "auth_failed", KindAuthFailed.String())
	assert.Equal(t, "policy_denied", KindPolicyDenied.String())
	assert.Equal(t, "already_exists", KindAlreadyExists.String())
	assert.Equal(t, "not_initialized", KindNotInitialized.String())
	assert.Equal(t, "generic", KindGeneric.String())
}

func TestExecNotFoundError(t *testing.T) {
	t.Parallel()

	cause := errors.New("executable file not found in $PATH")
	err := &ExecNotFoundError{Binary: "authy", Err: cause}
	assert.Contains(t, err.Error(), `"authy"`)
	assert.ErrorIs(t, err, cause)

	// The executable-missing condition is outside the vault taxonomy.
	assert.False(t, IsNotInitialized(err))
}
