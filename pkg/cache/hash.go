package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashParts hashes the JSON encoding of parts. Values that cannot be encoded
// contribute their zero encoding, so callers should pass plain data.
func HashParts(parts ...any) string {
	data, _ := json.Marshal(parts)
	return Hash(data)
}
