// Package vault is a Go client for the authy CLI secrets manager.
//
// The client wraps the authy binary as a subprocess and speaks its --json
// protocol: one independent child process per operation, secret values
// delivered over stdin (never as command-line arguments), structured JSON on
// stdout, and a typed error envelope on stderr. Failures map onto a closed
// error taxonomy that callers can branch on with errors.Is or the Is*
// predicates.
//
//	client, err := vault.New(vault.WithKeyfile("/path/to/key.age"))
//	if err != nil {
//	    return err
//	}
//	value, err := client.Get(ctx, "db-url")
package vault

import (
	"context"
	"os/exec"
	"time"

	"github.com/authykit/authy-go/internal/invoke"
	"github.com/authykit/authy-go/internal/logging"
	"github.com/authykit/authy-go/internal/metrics"
	"github.com/authykit/authy-go/internal/schema"
)

// DefaultBinary is the executable name looked up on PATH when no explicit
// path is configured.
const DefaultBinary = "authy"

// Client is the handle on the vault process. It is immutable after
// construction and safe for concurrent use: every operation spawns its own
// child with its own environment overlay and streams, so there is no shared
// invocation state to race on. Ordering between concurrent operations on the
// same secret name is whatever the vault process provides.
type Client struct {
	runner   invoke.Runner
	logger   *logging.Logger
	strict   bool
	recorder *metrics.Recorder // nil when metrics are disabled
}

type config struct {
	binary     string
	passphrase string
	keyfile    string
	logger     *logging.Logger
	timeout    time.Duration
	runner     invoke.Runner
	strict     bool
	metrics    bool
}

// Option configures a Client.
type Option func(*config)

// WithBinary sets the path to the authy binary instead of searching PATH.
func WithBinary(path string) Option {
	return func(c *config) {
		c.binary = path
	}
}

// WithPassphrase supplies the vault passphrase. It reaches the vault process
// as the AUTHY_PASSPHRASE variable in the child environment only; it is held
// in protected memory in between and never logged.
func WithPassphrase(passphrase string) Option {
	return func(c *config) {
		c.passphrase = passphrase
	}
}

// WithKeyfile supplies the path to a key file, passed to the vault process
// as AUTHY_KEYFILE in the child environment only.
func WithKeyfile(path string) Option {
	return func(c *config) {
		c.keyfile = path
	}
}

// WithLogger sets the diagnostic logger. Defaults to a quiet stderr logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTimeout bounds each individual invocation. When the deadline expires
// the child is killed and the call fails with a generic *Error carrying
// CodeTimeout; IsTimeout recognizes it. Zero, the default, blocks until the
// child exits on its own.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithStrictDecoding validates success responses against the wire schemas.
// A response that parses as JSON but does not match its schema is then
// reported as a protocol violation.
func WithStrictDecoding() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithMetrics records per-invocation Prometheus metrics on the default
// registry.
func WithMetrics() Option {
	return func(c *config) {
		c.metrics = true
	}
}

// WithRunner substitutes the subprocess layer. Intended for tests, which
// script synthetic (exit code, stdout, stderr) triples instead of spawning
// processes. When a runner is supplied, no binary lookup is performed.
func WithRunner(r invoke.Runner) Option {
	return func(c *config) {
		c.runner = r
	}
}

// New creates a Client. Unless a custom runner is injected, the authy binary
// is located up front and an *ExecNotFoundError is returned when it cannot
// be found; that failure is distinct from every vault-reported error and
// happens before any process is spawned.
func New(opts ...Option) (*Client, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = logging.New(false, false)
	}

	runner := cfg.runner
	if runner == nil {
		name := cfg.binary
		if name == "" {
			name = DefaultBinary
		}
		binary, err := exec.LookPath(name)
		if err != nil {
			return nil, &ExecNotFoundError{Binary: name, Err: err}
		}
		scope := invoke.NewCredentialScope(cfg.passphrase, cfg.keyfile)
		runner = invoke.NewExecRunner(binary, scope, logger, cfg.timeout)
	}

	var recorder *metrics.Recorder
	if cfg.metrics {
		recorder = metrics.NewRecorder()
	}

	return &Client{
		runner:   runner,
		logger:   logger,
		strict:   cfg.strict,
		recorder: recorder,
	}, nil
}

// run funnels every operation through the invoke → decode/map pipeline and
// records the outcome.
func (c *Client) run(ctx context.Context, inv invoke.Invocation) (map[string]any, error) {
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

	if res.ExitCode != 0 {
		mapped := MapError(res)
		c.recorder.Observe(inv.Subcommand, mapped.Kind.String(), time.Since(start))
		return nil, mapped
	}

	result, err := decodeResponse(res)
	if err != nil {
		c.recorder.Observe(inv.Subcommand, "protocol_error", time.Since(start))
		return nil, err
	}

	if c.strict {
		if err := schema.Validate(inv.Subcommand, []byte(res.Stdout)); err != nil {
			c.recorder.Observe(inv.Subcommand, "protocol_error", time.Since(start))
			return nil, &ProtocolError{Output: res.Stdout, Err: err}
		}
	}

	c.recorder.Observe(inv.Subcommand, "ok", time.Since(start))
	return result, nil
}
