package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrDigestMissing is returned when a secret is configured but the request
// carries no digest header.
var ErrDigestMissing = errors.New("X-SHA256-Digest header missing")

// ErrDigestMismatch is returned when the header digest does not match the
// digest computed over the raw request body.
var ErrDigestMismatch = errors.New("X-SHA256-Digest and computed digest do not match")

// Sign computes the lowercase hex HMAC-SHA256 digest of payload using secret.
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks a webhook request body against its header digest.
//
// The body must be the exact raw bytes as received, before any parsing.
// Re-serializing a parsed body desynchronizes the digest from what the
// sender signed, so callers must verify before binding.
//
// An empty secret disables verification and accepts everything.
func Verify(body []byte, headerDigest, secret string) error {
	if secret == "" {
		return nil
	}
	if headerDigest == "" {
		return ErrDigestMissing
	}
	computed := Sign(body, secret)
	if !hmac.Equal([]byte(computed), []byte(headerDigest)) {
		return ErrDigestMismatch
	}
	return nil
}
