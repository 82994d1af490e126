// Package secure holds credential material in protected memory.
//
// The vault passphrase lives in the client for as long as the client does,
// so it is kept inside a memguard enclave: encrypted at rest in memory,
// mlocked where the platform allows, and only decrypted for the moment it is
// needed to build a child-process environment.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer is an encrypted in-memory container for a credential value.
type Buffer struct {
	enclave *memguard.Enclave

	mu sync.RWMutex
	// destroyed allows idempotent Destroy calls and blocks use-after-destroy.
	destroyed bool
}

// NewBuffer copies data into a protected enclave. The caller keeps ownership
// of the input slice and should zero it if it came from sensitive input.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// Open decrypts the buffer into a locked memory region. The caller MUST call
// Destroy on the returned LockedBuffer as soon as the plaintext has been
// consumed.
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return memguard.NewBufferFromBytes([]byte{}), nil
	}
	return b.enclave.Open()
}

// Destroy drops the enclave and marks the buffer unusable. Idempotent.
// The encrypted backing data is safe to leave for the garbage collector;
// call memguard.Purge at process exit for a full sweep.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
