// Package testutil provides testing utilities shared by the package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/authykit/authy-go/internal/invoke"
)

// FakeRunner is a scripted invoke.Runner. It maps invocation patterns to
// canned (exit code, stdout, stderr) triples and records every call so tests
// can inspect the exact argument vectors the client produced - including
// verifying that no secret value ever appears in one.
type FakeRunner struct {
	mu sync.Mutex

	// Responses maps patterns to canned results. The key is the subcommand
	// followed by its positional arguments, space-separated ("get db-url").
	// Exact matches win; otherwise the first prefix match is used.
	Responses map[string]FakeResponse

	// DefaultResponse is used when no pattern matches. When nil, unmatched
	// invocations fail the lookup with an error.
	DefaultResponse *FakeResponse

	// Calls stores every invocation in order.
	Calls []invoke.Invocation
}

// FakeResponse is one canned invocation outcome. A non-nil Err simulates a
// transport failure (spawn error, timeout) instead of a process result.
type FakeResponse struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// NewFakeRunner creates an empty fake runner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: make(map[string]FakeResponse)}
}

// Invoke returns the scripted response for the invocation and records it.
func (f *FakeRunner) Invoke(_ context.Context, inv invoke.Invocation) (invoke.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, inv)

	key := invocationKey(inv)
	if resp, ok := f.Responses[key]; ok {
		return resp.result()
	}
	for pattern, resp := range f.Responses {
		if strings.HasPrefix(key, pattern) {
			return resp.result()
		}
	}
	if f.DefaultResponse != nil {
		return f.DefaultResponse.result()
	}
	return invoke.Result{}, fmt.Errorf("fake runner: no response scripted for %q", key)
}

func (r FakeResponse) result() (invoke.Result, error) {
	if r.Err != nil {
		return invoke.Result{}, r.Err
	}
	return invoke.Result{ExitCode: r.ExitCode, Stdout: r.Stdout, Stderr: r.Stderr}, nil
}

func invocationKey(inv invoke.Invocation) string {
	parts := append([]string{inv.Subcommand}, inv.Args...)
	return strings.Join(parts, " ")
}

// Script registers a canned response for an invocation pattern.
func (f *FakeRunner) Script(pattern string, resp FakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[pattern] = resp
}

// ScriptJSON registers a successful response with the given stdout document.
func (f *FakeRunner) ScriptJSON(pattern, document string) {
	f.Script(pattern, FakeResponse{Stdout: document})
}

// ScriptEmpty registers a successful response with empty output.
func (f *FakeRunner) ScriptEmpty(pattern string) {
	f.Script(pattern, FakeResponse{})
}

// ScriptEnvelope registers a failure with a structured error envelope on
// stderr, in the vault process's wire format.
func (f *FakeRunner) ScriptEnvelope(pattern string, exitCode int, code, message string) {
	f.Script(pattern, FakeResponse{
		ExitCode: exitCode,
		Stderr:   fmt.Sprintf(`{"error":{"code":%q,"message":%q}}`, code, message),
	})
}

// CallsFor returns the recorded invocations of one subcommand.
func (f *FakeRunner) CallsFor(subcommand string) []invoke.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []invoke.Invocation
	for _, call := range f.Calls {
		if call.Subcommand == subcommand {
			matches = append(matches, call)
		}
	}
	return matches
}

// CallCount returns the total number of invocations recorded.
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// Argvs returns the literal argument vectors of every recorded invocation.
func (f *FakeRunner) Argvs() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	argvs := make([][]string, 0, len(f.Calls))
	for _, call := range f.Calls {
		argvs = append(argvs, call.Argv())
	}
	return argvs
}

// AssertNeverInArgv fails the test when any recorded argument vector
// contains the given value. Used to enforce the stdin-only discipline for
// secret payloads.
func (f *FakeRunner) AssertNeverInArgv(t interface {
	Errorf(format string, args ...interface{})
}, value string) {
	for _, argv := range f.Argvs() {
		for _, arg := range argv {
			if strings.Contains(arg, value) {
				t.Errorf("secret value %q leaked into argument vector %v", value, argv)
			}
		}
	}
}

// Reset clears all recorded calls and scripted responses.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses = make(map[string]FakeResponse)
	f.Calls = nil
	f.DefaultResponse = nil
}
