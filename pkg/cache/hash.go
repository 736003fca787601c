package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key builds a cache key for a registry query, e.g.
// Key("npm", "versions", "react") == "registry:npm:versions:react".
func Key(registry, kind, name string) string {
	return strings.Join([]string{"registry", registry, kind, name}, ":")
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
