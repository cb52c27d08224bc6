package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex encoded sha256 digest of data. Used to build bounded cache keys
// from free text.
func Hash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
