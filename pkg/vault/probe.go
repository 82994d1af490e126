package vault

import (
	"context"
	"os/exec"

	"github.com/authykit/authy-go/internal/invoke"
)

// probeName is a sentinel secret name that is not expected to exist. The
// probe only inspects the failure classification of reading it, so a
// coincidental hit simply means a vault exists.
const probeName = "__probe"

// IsInitialized reports whether an authy vault exists, without requiring
// credentials. An empty binary falls back to looking up DefaultBinary on
// PATH.
//
// The heuristic issues a deliberately unauthenticated read of a sentinel
// name and classifies only the failure: the vault_not_initialized envelope
// code is the single outcome mapped to false. Every other result - success,
// auth failures, any other code, or an unparseable error body - is
// conservatively treated as "a vault exists but this call could not read
// it". A missing executable is an error, never a false: the two conditions
// must not be conflated.
func IsInitialized(ctx context.Context, binary string) (bool, error) {
	name := binary
	if name == "" {
		name = DefaultBinary
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return false, &ExecNotFoundError{Binary: name, Err: err}
	}

	// No credential scope: the probe is credential-free on purpose.
	runner := invoke.NewExecRunner(path, nil, nil, 0)
	return probeWithRunner(ctx, runner)
}

// Probe runs the vault-existence heuristic through this client's subprocess
// layer. Unlike IsInitialized it reuses whatever credentials and runner the
// client was built with.
func (c *Client) Probe(ctx context.Context) (bool, error) {
	return probeWithRunner(ctx, c.runner)
}

func probeWithRunner(ctx context.Context, runner invoke.Runner) (bool, error) {
	res, err := runner.Invoke(ctx, invoke.Invocation{Subcommand: "get", Args: []string{probeName}})
	if err != nil {
		return false, mapRunnerError(err)
	}

	if res.ExitCode == 0 {
		// The sentinel coincidentally exists, so a vault certainly does.
		return true, nil
	}

	detail, ok := parseEnvelope(res.Stderr)
	if !ok {
		// Unparseable failure: assume a vault exists but errored.
		return true, nil
	}
	return detail.Code != CodeVaultNotInitialized, nil
}
