package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// TokenFingerprint digests a CSRF token for traceability. Audit entries
// carry fingerprints rather than raw tokens, so the log itself can never be
// replayed.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
