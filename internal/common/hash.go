package common

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex hashes idempotency keys and request bodies into fixed length,
// Redis safe strings.
func Sha256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
