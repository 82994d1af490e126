package vault

// Secret is a stored value as reported by a read operation. It is
// materialized transiently from a decoded response; the client never caches
// it.
//
// Version is assigned by the vault process and strictly increases across
// store and rotate operations on the same name. The client only reports it.
// Created and Modified are the timestamps exactly as the vault process
// formatted them.
type Secret struct {
	Name     string
	Value    string
	Version  int
	Created  string
	Modified string
}

// SecretSummary is a single listing entry. The value is never included.
type SecretSummary struct {
	Name     string
	Version  int
	Created  string
	Modified string
}

// RunResult is the captured outcome of a command executed by the vault
// process with secrets injected into its environment. The client captures
// the execution rather than replacing its own process image.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}
