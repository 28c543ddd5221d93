// Package checksum fingerprints generated artifacts.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortLen is the number of hex digits shown by Short.
const ShortLen = 12

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Short abbreviates a digest returned by Sum for display.
func Short(sum string) string {
	if len(sum) > ShortLen {
		return sum[:ShortLen]
	}
	return sum
}
