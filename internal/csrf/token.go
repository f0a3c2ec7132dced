// Package csrf implements stateless anti-forgery tokens following the
// OWASP Encrypted Token Pattern: a random nonce, an issuance timestamp and
// the protected action identifier are bound together by an HMAC keyed with
// a session secret that never leaves the server. Possession of the token
// without control of the session is useless, and no per-token state is kept
// server-side.
package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash"
	"time"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

const (
	// DefaultNonceLength is 16 bytes (128 bits of entropy), which is also
	// the minimum accepted.
	DefaultNonceLength = 16
	MinNonceLength     = 16

	// DefaultLifespan bounds how long an issued token stays verifiable.
	DefaultLifespan = 15 * time.Minute

	// futureSkew tolerates small clock drift between issuing and verifying
	// hosts before a token "from the future" is rejected.
	futureSkew = time.Minute

	AlgorithmSHA256 = "sha256"
	AlgorithmSHA512 = "sha512"

	// MinSecretLength is the shortest session secret accepted for keying.
	MinSecretLength = 32
)

// Params configures the token service. The zero value selects the defaults
// (16-byte nonce, sha256, 15 minute lifespan).
type Params struct {
	// NonceLength is the random nonce size in bytes.
	NonceLength int `yaml:"nonce_length" json:"nonce_length"`

	// Algorithm selects the MAC hash: "sha256" or "sha512".
	Algorithm string `yaml:"algorithm" json:"algorithm"`

	// Lifespan is the expiry window; tokens older than this fail
	// verification.
	Lifespan time.Duration `yaml:"lifespan" json:"lifespan"`
}

// Service mints and validates encrypted CSRF tokens.
type Service struct {
	params  Params
	newHash func() hash.Hash
	tagSize int

	// now is swapped out in tests for deterministic expiry checks.
	now func() time.Time
}

// NewService validates the parameters and returns a ready service.
// Invalid parameters are a *core.ConfigurationError.
func NewService(params Params) (*Service, error) {
	if params.NonceLength == 0 {
		params.NonceLength = DefaultNonceLength
	}
	if params.NonceLength < MinNonceLength {
		return nil, core.ConfigErrorf("csrf nonce length %d below minimum of %d bytes",
			params.NonceLength, MinNonceLength)
	}
	if params.Algorithm == "" {
		params.Algorithm = AlgorithmSHA256
	}
	if params.Lifespan == 0 {
		params.Lifespan = DefaultLifespan
	}
	if params.Lifespan < 0 {
		return nil, core.ConfigErrorf("csrf lifespan must be positive, got %s", params.Lifespan)
	}

	var newHash func() hash.Hash
	switch params.Algorithm {
	case AlgorithmSHA256:
		newHash = sha256.New
	case AlgorithmSHA512:
		newHash = sha512.New
	default:
		return nil, core.ConfigErrorf("unknown csrf mac algorithm '%s'", params.Algorithm)
	}

	return &Service{
		params:  params,
		newHash: newHash,
		tagSize: newHash().Size(),
		now:     time.Now,
	}, nil
}

// Params returns the effective (defaulted) parameters.
func (s *Service) Params() Params {
	return s.params
}

// Issue mints a token bound to the session secret and the given action
// identifier. The token layout is
//
//	base64url( nonce || unix-timestamp(8, big-endian) || action || tag )
//
// where tag = HMAC(secret, nonce || timestamp || action).
func (s *Service) Issue(secret []byte, action string) (string, error) {
	if len(secret) < MinSecretLength {
		return "", core.ConfigErrorf("session secret must be at least %d bytes", MinSecretLength)
	}

	payload := make([]byte, s.params.NonceLength+8+len(action))
	if _, err := rand.Read(payload[:s.params.NonceLength]); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	binary.BigEndian.PutUint64(payload[s.params.NonceLength:], uint64(s.now().Unix()))
	copy(payload[s.params.NonceLength+8:], action)

	mac := hmac.New(s.newHash, secret)
	mac.Write(payload)
	tag := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(append(payload, tag...)), nil
}

// Verify reports whether the token is authentic for the given secret and
// action identifier and has not expired. It fails closed: malformed
// encoding, a bad tag, an action mismatch and an expired timestamp all
// yield false, with no indication of which check failed.
func (s *Service) Verify(secret []byte, action, token string) bool {
	if len(secret) < MinSecretLength {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	if len(raw) < s.params.NonceLength+8+s.tagSize {
		return false
	}

	payload := raw[:len(raw)-s.tagSize]
	tag := raw[len(raw)-s.tagSize:]

	mac := hmac.New(s.newHash, secret)
	mac.Write(payload)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return false
	}

	// the tag is authentic from here on; the remaining checks bind the
	// token to the action and the expiry window
	embeddedAction := string(payload[s.params.NonceLength+8:])
	if embeddedAction != action {
		return false
	}

	issued := time.Unix(int64(binary.BigEndian.Uint64(payload[s.params.NonceLength:])), 0)
	now := s.now()
	if now.Sub(issued) > s.params.Lifespan {
		return false
	}
	if issued.After(now.Add(futureSkew)) {
		return false
	}

	return true
}
