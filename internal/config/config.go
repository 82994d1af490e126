// Package config loads the optional authyctl.yaml file that tells the CLI
// where the authy binary lives and how to obtain credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	cfgerrors "github.com/authykit/authy-go/internal/errors"
	"github.com/authykit/authy-go/internal/logging"
)

// DefaultFileName is the config file looked for in the working directory and
// in the user config directory when no --config flag is given.
const DefaultFileName = "authyctl.yaml"

// Passphrase sources accepted for the passphrase_from field.
const (
	PassphraseFromEnv     = "env"     // rely on AUTHY_PASSPHRASE already being set
	PassphraseFromKeyring = "keyring" // load from the OS keychain
	PassphraseFromNone    = "none"    // keyfile-only or interactive vault
)

// Config holds the runtime configuration.
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the authyctl.yaml structure.
type Definition struct {
	Binary         string `yaml:"binary,omitempty"`
	Keyfile        string `yaml:"keyfile,omitempty"`
	PassphraseFrom string `yaml:"passphrase_from,omitempty"`
	KeyringAccount string `yaml:"keyring_account,omitempty"`
	Scope          string `yaml:"scope,omitempty"`
	TimeoutMs      int    `yaml:"timeout_ms,omitempty"`
	Metrics        bool   `yaml:"metrics,omitempty"`
	StrictDecoding bool   `yaml:"strict_decoding,omitempty"`
}

// Timeout converts the configured timeout into a duration. Zero means no
// deadline.
func (d *Definition) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

// DefaultPath returns the first config file that exists: ./authyctl.yaml,
// then <user config dir>/authy/authyctl.yaml. An empty string means there is
// no config file, which is fine; every setting has a default.
func DefaultPath() string {
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "authy", DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Load reads and parses the config file. A Config with an empty Path loads
// an all-defaults Definition without touching the filesystem. A missing file
// at an explicit path is an error; the user asked for that file.
func (c *Config) Load() error {
	if c.Path == "" {
		c.Definition = &Definition{}
		return nil
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfgerrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create the file or drop the --config flag to use defaults",
			}
		}
		return cfgerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return cfgerrors.ConfigError{
			Field:      "yaml",
			Message:    fmt.Sprintf("invalid YAML: %v", err),
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if err := def.validate(); err != nil {
		return err
	}

	c.Definition = &def
	c.Logger.Debug("Loaded configuration from %s", c.Path)
	return nil
}

func (d *Definition) validate() error {
	switch d.PassphraseFrom {
	case "", PassphraseFromEnv, PassphraseFromKeyring, PassphraseFromNone:
	default:
		return cfgerrors.ConfigError{
			Field:      "passphrase_from",
			Value:      d.PassphraseFrom,
			Message:    "unknown passphrase source",
			Suggestion: "Use 'env', 'keyring' or 'none'",
		}
	}
	if d.TimeoutMs < 0 {
		return cfgerrors.ConfigError{
			Field:      "timeout_ms",
			Value:      d.TimeoutMs,
			Message:    "timeout must not be negative",
			Suggestion: "Use 0 to disable the per-invocation deadline",
		}
	}
	return nil
}
