package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/authykit/authy-go/internal/config"
	"github.com/authykit/authy-go/internal/credstore"
	userrors "github.com/authykit/authy-go/internal/errors"
	"github.com/authykit/authy-go/internal/invoke"
	"github.com/authykit/authy-go/pkg/vault"
)

// testRunner, when set, replaces the subprocess layer in every client the
// commands build. Only tests set it.
var testRunner invoke.Runner

// buildClient loads the config and assembles a vault client from it.
func buildClient(cfg *config.Config, extra ...vault.Option) (*vault.Client, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	def := cfg.Definition

	var opts []vault.Option
	if cfg.Logger != nil {
		opts = append(opts, vault.WithLogger(cfg.Logger))
	}
	if def.Binary != "" {
		opts = append(opts, vault.WithBinary(def.Binary))
	}
	if def.Keyfile != "" {
		opts = append(opts, vault.WithKeyfile(def.Keyfile))
	}
	if def.PassphraseFrom == config.PassphraseFromKeyring {
		passphrase, err := credstore.New().Load(def.KeyringAccount)
		if err != nil {
			if errors.Is(err, credstore.ErrNotStored) {
				return nil, userrors.UserError{
					Message:    "No passphrase stored in the keychain",
					Suggestion: "Run 'authyctl login' to store one",
					Err:        err,
				}
			}
			return nil, err
		}
		opts = append(opts, vault.WithPassphrase(passphrase))
	}
	if timeout := def.Timeout(); timeout > 0 {
		opts = append(opts, vault.WithTimeout(timeout))
	}
	if def.Metrics {
		opts = append(opts, vault.WithMetrics())
	}
	if def.StrictDecoding {
		opts = append(opts, vault.WithStrictDecoding())
	}
	if testRunner != nil {
		opts = append(opts, vault.WithRunner(testRunner))
	}
	opts = append(opts, extra...)

	client, err := vault.New(opts...)
	if err != nil {
		return nil, userrors.Friendly(err)
	}
	return client, nil
}

// effectiveScope prefers the command-line flag over the configured default.
func effectiveScope(flagValue string, def *config.Definition) string {
	if flagValue != "" {
		return flagValue
	}
	return def.Scope
}

// readValue reads a secret value from the reader (normally stdin). A single
// trailing newline is stripped so piped input like 'echo value | authyctl
// store name' round-trips cleanly; everything else is kept verbatim.
func readValue(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read value from stdin: %w", err)
	}
	value := string(data)
	value = strings.TrimSuffix(value, "\n")
	value = strings.TrimSuffix(value, "\r")
	if value == "" {
		return "", userrors.UserError{
			Message:    "No value provided on stdin",
			Suggestion: "Pipe the value in, e.g. 'echo -n s3cret | authyctl store db-url'",
		}
	}
	return value, nil
}
