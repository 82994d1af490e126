// Package errors holds the CLI-facing error types: failures annotated with a
// suggestion the user can act on. The vault client itself reports typed
// errors; this package dresses them up for terminal output.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/authykit/authy-go/pkg/vault"
)

// UserError is an error meant to be shown to the user with helpful context.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context.
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// Friendly maps a vault client error onto a UserError with a suggestion.
// Errors that are already user-facing, and errors with no better rendering,
// pass through unchanged.
func Friendly(err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case UserError, ConfigError:
		return err
	}

	switch {
	case vault.IsAuthFailed(err):
		return UserError{
			Message:    "Authentication failed",
			Suggestion: "Check your passphrase, or run 'authyctl login' to store it in the keychain",
			Err:        err,
		}
	case vault.IsNotFound(err):
		return UserError{
			Message:    "Secret not found",
			Suggestion: "Run 'authyctl list' to see the secrets in this vault",
			Err:        err,
		}
	case vault.IsAlreadyExists(err):
		return UserError{
			Message:    "Secret already exists",
			Suggestion: "Pass --force to overwrite the existing secret",
			Err:        err,
		}
	case vault.IsPolicyDenied(err):
		return UserError{
			Message:    "Access denied by vault policy",
			Suggestion: "Ask the vault administrator to grant access to this secret",
			Err:        err,
		}
	case vault.IsNotInitialized(err):
		return UserError{
			Message:    "No vault found",
			Suggestion: "Run 'authyctl init' to create one",
			Err:        err,
		}
	}

	var notFound *vault.ExecNotFoundError
	if stderrors.As(err, &notFound) {
		return UserError{
			Message:    fmt.Sprintf("The authy executable '%s' was not found", notFound.Binary),
			Suggestion: "Install authy and make sure it is on your PATH, or set 'binary' in the config file",
			Err:        err,
		}
	}

	var protoErr *vault.ProtocolError
	if stderrors.As(err, &protoErr) {
		return UserError{
			Message:    "The vault process returned output this client could not understand",
			Details:    protoErr.Err.Error(),
			Suggestion: "Check that the installed authy version matches this client",
			Err:        err,
		}
	}

	return err
}
