package vault

import (
	"context"
	"time"

	"github.com/authykit/authy-go/internal/invoke"
)

// CallOption configures individual operations.
type CallOption func(*callConfig)

type callConfig struct {
	force bool
	scope string
}

// Force enables the --force flag, allowing Store and Import to overwrite
// existing secrets.
func Force() CallOption {
	return func(c *callConfig) {
		c.force = true
	}
}

// WithScope restricts List, Entries and Run to a named policy scope.
func WithScope(scope string) CallOption {
	return func(c *callConfig) {
		c.scope = scope
	}
}

func applyCallOptions(opts []CallOption) *callConfig {
	cfg := &callConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Get retrieves the value of a secret by name. Fails with ErrSecretNotFound
// when no such secret exists.
func (c *Client) Get(ctx context.Context, name string) (string, error) {
	secret, err := c.GetSecret(ctx, name)
	if err != nil {
		return "", err
	}
	return secret.Value, nil
}

// GetSecret retrieves a secret together with the metadata the vault process
// reports for it: version and timestamps.
func (c *Client) GetSecret(ctx context.Context, name string) (*Secret, error) {
	result, err := c.run(ctx, invoke.Invocation{Subcommand: "get", Args: []string{name}})
	if err != nil {
		return nil, err
	}
	return secretFromResponse(result)
}

// GetOpt retrieves a secret, returning (value, true, nil) when found and
// ("", false, nil) when the secret does not exist. Only not-found is
// absorbed; every other failure still propagates.
func (c *Client) GetOpt(ctx context.Context, name string) (string, bool, error) {
	value, err := c.Get(ctx, name)
	if err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Store creates a new secret. The value travels over the child's stdin and
// never appears in the argument vector. Without Force, storing an existing
// name fails with ErrSecretAlreadyExists.
func (c *Client) Store(ctx context.Context, name, value string, opts ...CallOption) error {
	cfg := applyCallOptions(opts)
	inv := invoke.Invocation{Subcommand: "store", Args: []string{name}, Stdin: value}
	if cfg.force {
		inv.Flags = append(inv.Flags, "--force")
	}
	_, err := c.run(ctx, inv)
	return err
}

// Remove deletes a secret by name, reporting true on success. Fails with
// ErrSecretNotFound when the secret does not exist.
func (c *Client) Remove(ctx context.Context, name string) (bool, error) {
	if _, err := c.run(ctx, invoke.Invocation{Subcommand: "remove", Args: []string{name}}); err != nil {
		return false, err
	}
	return true, nil
}

// Rotate replaces a secret's value and returns the new version number. The
// new value travels over stdin.
//
// This is a two-step protocol: the rotate subcommand reports no version, so
// the client issues a follow-up get once rotation succeeds. The two steps are
// not atomic - if another actor mutates the same name in between, the
// returned version may not correspond to the value just set.
func (c *Client) Rotate(ctx context.Context, name, newValue string) (int, error) {
	if _, err := c.run(ctx, invoke.Invocation{Subcommand: "rotate", Args: []string{name}, Stdin: newValue}); err != nil {
		return 0, err
	}

	secret, err := c.GetSecret(ctx, name)
	if err != nil {
		return 0, err
	}
	return secret.Version, nil
}

// List returns the names of all secrets, optionally filtered by scope. The
// order is exactly what the vault process reported; the client does not
// re-sort.
func (c *Client) List(ctx context.Context, opts ...CallOption) ([]string, error) {
	entries, err := c.Entries(ctx, opts...)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names, nil
}

// Entries returns the full listing entries, optionally filtered by scope,
// in the order the vault process reported them.
func (c *Client) Entries(ctx context.Context, opts ...CallOption) ([]SecretSummary, error) {
	cfg := applyCallOptions(opts)
	inv := invoke.Invocation{Subcommand: "list"}
	if cfg.scope != "" {
		inv.Flags = append(inv.Flags, "--scope", cfg.scope)
	}
	result, err := c.run(ctx, inv)
	if err != nil {
		return nil, err
	}
	return summariesFromResponse(result), nil
}

// Run executes a command through the vault process, which injects the
// applicable secrets as environment variables into it. The child's exit code
// and both output streams are captured and returned; a non-zero exit from
// the target command is a result, not an error.
func (c *Client) Run(ctx context.Context, command []string, opts ...CallOption) (*RunResult, error) {
	cfg := applyCallOptions(opts)
	inv := invoke.Invocation{Subcommand: "run", Trailing: command}
	if cfg.scope != "" {
		inv.Flags = append(inv.Flags, "--scope", cfg.scope)
	}

	start := time.Now()
	res, err := c.runner.Invoke(ctx, inv)
	if err != nil {
		mapped := mapRunnerError(err)
		if IsTimeout(mapped) {
			c.recorder.Observe(inv.Subcommand, "timeout", time.Since(start))
		} else {
			c.recorder.Observe(inv.Subcommand, "spawn_error", time.Since(start))
		}
		return nil, mapped
	}
	c.recorder.Observe(inv.Subcommand, "ok", time.Since(start))
	return &RunResult{
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}, nil
}

// Import loads secrets from a .env file. The vault process reads the file
// directly; there is no stdin payload. Collisions fail with
// ErrSecretAlreadyExists unless Force is passed.
func (c *Client) Import(ctx context.Context, path string, opts ...CallOption) error {
	cfg := applyCallOptions(opts)
	inv := invoke.Invocation{Subcommand: "import", Args: []string{path}}
	if cfg.force {
		inv.Flags = append(inv.Flags, "--force")
	}
	_, err := c.run(ctx, inv)
	return err
}

// ImportOption configures external-source imports.
type ImportOption func(*importConfig)

type importConfig struct {
	vault string
}

// ImportVault names the source-side vault for external imports.
func ImportVault(name string) ImportOption {
	return func(c *importConfig) {
		c.vault = name
	}
}

// ImportFrom imports secrets from an external source (e.g. "1password").
func (c *Client) ImportFrom(ctx context.Context, source string, opts ...ImportOption) error {
	cfg := &importConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	inv := invoke.Invocation{Subcommand: "import", Flags: []string{"--from", source}}
	if cfg.vault != "" {
		inv.Flags = append(inv.Flags, "--vault", cfg.vault)
	}
	_, err := c.run(ctx, inv)
	return err
}

// Init initializes a new vault.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.run(ctx, invoke.Invocation{Subcommand: "init"})
	return err
}
