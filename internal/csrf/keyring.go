package csrf

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/rs/xid"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

// SecretLength is the size of generated session secrets.
const SecretLength = 64

// Keyring holds named session secrets for token operations. It supports
// many concurrent readers; registration and removal take the write lock.
//
// The keyring stores secrets only, not session state: cookie and transport
// handling stay with the hosting application.
type Keyring struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[string][]byte)}
}

// Create generates a fresh session identifier and secret and registers the
// pair. The identifier is an xid (time + machine + pid + counter), so it is
// sortable and unique without coordination.
func (k *Keyring) Create() (string, []byte, error) {
	secret := make([]byte, SecretLength)
	if _, err := rand.Read(secret); err != nil {
		return "", nil, fmt.Errorf("generating session secret: %w", err)
	}

	id := xid.New().String()

	k.mu.Lock()
	k.keys[id] = secret
	k.mu.Unlock()

	return id, secret, nil
}

// Register stores a caller-supplied secret under the given name, for
// applications that derive session secrets elsewhere.
func (k *Keyring) Register(name string, secret []byte) error {
	if name == "" {
		return core.ConfigErrorf("keyring entry needs a name")
	}
	if len(secret) < MinSecretLength {
		return core.ConfigErrorf("keyring secret must be at least %d bytes", MinSecretLength)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	key := make([]byte, len(secret))
	copy(key, secret)
	k.keys[name] = key
	return nil
}

// Get returns the secret registered under name.
func (k *Keyring) Get(name string) ([]byte, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	secret, ok := k.keys[name]
	return secret, ok
}

// Remove forgets the secret registered under name.
func (k *Keyring) Remove(name string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.keys, name)
}

// Len returns the number of registered secrets.
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}
