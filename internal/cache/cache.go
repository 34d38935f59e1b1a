package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores priced-result blobs keyed by content fingerprint.
// Entries are content-addressed and immutable, so writes to the same
// key are idempotent and last-writer-wins is safe across concurrent runs.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
	Clear() error
}

// Fingerprint derives the deterministic cache key for a pricing run:
// the first 16 hex characters of sha256(payload + prompt version).
// The payload must be the canonical JSON of the full issue list so that
// identical inputs always map to the same key.
func Fingerprint(payload []byte, promptVersion string) string {
	h := sha256.New()
	h.Write(payload)
	h.Write([]byte(promptVersion))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
