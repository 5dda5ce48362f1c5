package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrEmptySecret is returned when the HMAC key is empty.
var ErrEmptySecret = errors.New("hash: hmac secret is empty")

// HMACSHA256 produces deterministic hex-encoded HMAC-SHA256 digests.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a new hasher keyed with secret.
func NewHMACSHA256(secret string) (*HMACSHA256, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &HMACSHA256{secret: []byte(secret)}, nil
}

// Digest returns the hex HMAC of str. Equal inputs always give equal digests.
func (s *HMACSHA256) Digest(str string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(str))
	return hex.EncodeToString(h.Sum(nil))
}

