package invoke

import (
	"fmt"
	"os"

	"github.com/authykit/authy-go/internal/secure"
)

// Environment variables the vault executable reads credentials from.
const (
	EnvPassphrase = "AUTHY_PASSPHRASE"
	EnvKeyfile    = "AUTHY_KEYFILE"
)

// CredentialScope holds the caller-supplied authentication material for a
// client. It is immutable after construction and applied per invocation as
// an environment overlay for the child process; the calling process's own
// environment is never modified.
//
// The passphrase is kept in protected memory and only decrypted while the
// overlay is being assembled.
type CredentialScope struct {
	passphrase *secure.Buffer
	keyfile    string
}

// NewCredentialScope builds a scope from an optional passphrase and an
// optional key-file path. Either or both may be empty.
func NewCredentialScope(passphrase, keyfile string) *CredentialScope {
	scope := &CredentialScope{keyfile: keyfile}
	if passphrase != "" {
		scope.passphrase = secure.NewBuffer([]byte(passphrase))
	}
	return scope
}

// Environ returns the ambient environment with the credential entries
// overlaid on top. Only entries that were actually supplied appear. Safe to
// call on a nil scope, which yields the ambient environment unchanged.
func (s *CredentialScope) Environ() ([]string, error) {
	env := os.Environ()
	if s == nil {
		return env, nil
	}
	if s.passphrase != nil {
		locked, err := s.passphrase.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to unseal passphrase: %w", err)
		}
		// Concatenation copies the plaintext out of the locked region, so the
		// region can be wiped immediately.
		env = append(env, EnvPassphrase+"="+string(locked.Bytes()))
		locked.Destroy()
	}
	if s.keyfile != "" {
		env = append(env, EnvKeyfile+"="+s.keyfile)
	}
	return env, nil
}

// HasPassphrase reports whether a passphrase was supplied.
func (s *CredentialScope) HasPassphrase() bool {
	return s != nil && s.passphrase != nil
}

// Destroy wipes the protected passphrase. The scope must not be used for
// further invocations afterwards.
func (s *CredentialScope) Destroy() {
	if s != nil && s.passphrase != nil {
		s.passphrase.Destroy()
	}
}
