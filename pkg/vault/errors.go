package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/authykit/authy-go/internal/invoke"
)

// Wire error codes reported in the vault process's error envelope.
const (
	CodeInternalError       = "internal_error"
	CodeAuthFailed          = "auth_failed"
	CodeNotFound            = "not_found"
	CodeAccessDenied        = "access_denied"
	CodeAlreadyExists       = "already_exists"
	CodeInvalidToken        = "invalid_token"
	CodeVaultNotInitialized = "vault_not_initialized"
	CodeUnknown             = "unknown_error"
)

// CodeTimeout is synthesized by this client when the per-invocation deadline
// kills the child; it never comes over the wire.
const CodeTimeout = "timeout"

// Kind is the closed classification of vault process failures. The exit code
// selects the kind; the wire string code is preserved on the error for
// finer-grained inspection but never drives classification, because exit
// codes are the narrow stable contract while string codes may proliferate.
type Kind int

const (
	// KindGeneric covers unmapped exit codes and unparseable error bodies.
	KindGeneric Kind = iota
	// KindAuthFailed means the supplied credentials were rejected (exit 2).
	KindAuthFailed
	// KindNotFound means no secret with that name exists (exit 3).
	KindNotFound
	// KindPolicyDenied means an access policy blocked the operation (exit 4).
	KindPolicyDenied
	// KindAlreadyExists means a store collided without --force (exit 5).
	KindAlreadyExists
	// KindNotInitialized means no vault has been created yet (exit 7).
	KindNotInitialized
)

// String returns the kind as a stable lowercase token, suitable for metric
// labels and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindAuthFailed:
		return "auth_failed"
	case KindNotFound:
		return "not_found"
	case KindPolicyDenied:
		return "policy_denied"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotInitialized:
		return "not_initialized"
	default:
		return "generic"
	}
}

// Error is the typed failure reported by the vault process. Every Error
// carries the numeric exit code, the wire string code when one was parsed
// (or a best-effort code derived from the exit code), and a human-readable
// message, so callers can branch on Kind while still logging detail.
type Error struct {
	Kind     Kind
	ExitCode int
	Code     string
	Message  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("authy: %s (exit code %d)", e.Code, e.ExitCode)
}

// Is supports errors.Is matching against the sentinel errors below by
// comparing kinds only; exit code and message are diagnostics, not identity.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinel errors for errors.Is matching, one per mapped taxonomy kind.
var (
	ErrAuthFailed          = &Error{Kind: KindAuthFailed, ExitCode: 2, Code: CodeAuthFailed}
	ErrSecretNotFound      = &Error{Kind: KindNotFound, ExitCode: 3, Code: CodeNotFound}
	ErrPolicyDenied        = &Error{Kind: KindPolicyDenied, ExitCode: 4, Code: CodeAccessDenied}
	ErrSecretAlreadyExists = &Error{Kind: KindAlreadyExists, ExitCode: 5, Code: CodeAlreadyExists}
	ErrVaultNotInitialized = &Error{Kind: KindNotInitialized, ExitCode: 7, Code: CodeVaultNotInitialized}
)

// ExecNotFoundError means the vault executable itself could not be located.
// It is raised at client construction, before any process is spawned, and is
// deliberately outside the Error taxonomy: there is no exit code because
// nothing ran.
type ExecNotFoundError struct {
	Binary string
	Err    error
}

func (e *ExecNotFoundError) Error() string {
	return fmt.Sprintf("authy binary %q not found: %v", e.Binary, e.Err)
}

func (e *ExecNotFoundError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a successful exit whose standard output could not be
// decoded (or, in strict mode, failed schema validation). The vault process
// violated its own wire contract; callers must treat this as fatal rather
// than as a domain condition.
type ProtocolError struct {
	Output string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("authy: invalid response on successful exit: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// envelope mirrors the structured error format on stderr:
// {"error": {"code": string, "message": string}}.
type envelope struct {
	Error envelopeDetail `json:"error"`
}

type envelopeDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// parseEnvelope extracts the structured error body from stderr. The second
// return is false when the body is missing, unparseable, or has no code.
func parseEnvelope(stderr string) (envelopeDetail, bool) {
	var env envelope
	if err := json.Unmarshal([]byte(stderr), &env); err != nil || env.Error.Code == "" {
		return envelopeDetail{}, false
	}
	return env.Error, true
}

// kindForExit is the pure classification function: process exit code in,
// taxonomy kind out.
func kindForExit(exitCode int) Kind {
	switch exitCode {
	case 2:
		return KindAuthFailed
	case 3:
		return KindNotFound
	case 4:
		return KindPolicyDenied
	case 5:
		return KindAlreadyExists
	case 7:
		return KindNotInitialized
	default:
		return KindGeneric
	}
}

// codeForExit synthesizes a wire code when the error body carried none.
func codeForExit(exitCode int) string {
	switch exitCode {
	case 1:
		return CodeInternalError
	case 2:
		return CodeAuthFailed
	case 3:
		return CodeNotFound
	case 4:
		return CodeAccessDenied
	case 5:
		return CodeAlreadyExists
	case 6:
		return CodeInvalidToken
	case 7:
		return CodeVaultNotInitialized
	default:
		return CodeUnknown
	}
}

// MapError classifies a failed invocation into a typed *Error.
//
// A well-formed envelope on stderr takes precedence: its code and message are
// preserved and the exit code selects the kind. Anything else degrades to a
// generic error carrying the raw exit code and the trimmed stderr text, or a
// synthesized message when stderr is empty.
func MapError(res invoke.Result) *Error {
	if detail, ok := parseEnvelope(res.Stderr); ok {
		return &Error{
			Kind:     kindForExit(res.ExitCode),
			ExitCode: res.ExitCode,
			Code:     detail.Code,
			Message:  detail.Message,
		}
	}

	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("authy exited with code %d", res.ExitCode)
	}
	return &Error{
		Kind:     KindGeneric,
		ExitCode: res.ExitCode,
		Code:     codeForExit(res.ExitCode),
		Message:  msg,
	}
}

// mapRunnerError translates transport failures from the subprocess layer. A
// deadline expiry becomes a generic *Error carrying CodeTimeout, so callers
// branch on it with the same errors.As machinery as every vault failure;
// every other transport error passes through unchanged.
func mapRunnerError(err error) error {
	var timeoutErr *invoke.TimeoutError
	if errors.As(err, &timeoutErr) {
		return &Error{
			Kind:     KindGeneric,
			ExitCode: -1,
			Code:     CodeTimeout,
			Message:  timeoutErr.Error(),
		}
	}
	return err
}

// IsNotFound reports whether err is a secret-not-found failure.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// IsAuthFailed reports whether err is a credential-rejection failure.
func IsAuthFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAuthFailed
}

// IsAlreadyExists reports whether err is a store collision.
func IsAlreadyExists(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAlreadyExists
}

// IsPolicyDenied reports whether err is an access-policy denial.
func IsPolicyDenied(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindPolicyDenied
}

// IsNotInitialized reports whether err means no vault exists yet.
func IsNotInitialized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotInitialized
}

// IsTimeout reports whether err means the per-invocation deadline killed the
// child before it finished.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeTimeout
}
