// Package invoke spawns the authy vault executable and captures its outcome.
//
// The package treats the executable as a message-passing peer: a request is
// an argument vector plus an optional stdin payload, a response is an exit
// code plus the bytes of both output streams. Decoding and error
// classification happen elsewhere, so the protocol can be exercised against
// synthetic results without any real process.
package invoke

// Invocation describes a single call to the vault executable.
//
// Stdin carries the secret payload for store and rotate. It is written to the
// child's input stream and never appears in the argument vector.
type Invocation struct {
	Subcommand string
	Args       []string // positional arguments (secret name, file path)
	Flags      []string // e.g. --force, or --scope followed by its value
	Trailing   []string // arguments after the -- separator (run only)
	Stdin      string   // secret payload, delivered over the input stream
}

// Argv returns the full argument vector for the invocation. The --json flag
// always comes first so every response is machine-readable.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, 2+len(inv.Args)+len(inv.Flags)+len(inv.Trailing)+1)
	argv = append(argv, "--json", inv.Subcommand)
	argv = append(argv, inv.Args...)
	argv = append(argv, inv.Flags...)
	if len(inv.Trailing) > 0 {
		argv = append(argv, "--")
		argv = append(argv, inv.Trailing...)
	}
	return argv
}

// Result captures the outcome of one vault process run. It is created per
// call and discarded after decoding.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}
