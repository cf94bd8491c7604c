package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// generatePrefixedID creates a globally unique ID in the format:
//
//	{prefix}_{unix_nano}_{12_hex_chars}
//
// The 12 hex characters are derived from 6 cryptographically random bytes,
// giving 48 bits of randomness to avoid collisions at the same nanosecond.
// If crypto/rand fails, the ID omits the random suffix and relies on the
// nanosecond timestamp alone (acceptable for CLI-scale usage).
func generatePrefixedID(prefix string) string {
	timestamp := time.Now().UnixNano()

	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%s_%d", prefix, timestamp)
	}

	return fmt.Sprintf("%s_%d_%s", prefix, timestamp, hex.EncodeToString(b[:]))
}

const (
	joinCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	// JoinCodeLength is the number of characters in a workspace join code.
	JoinCodeLength = 6
)

// GenerateJoinCode returns a random lowercase alphanumeric join code.
func GenerateJoinCode() string {
	var b [JoinCodeLength]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Fall back to the clock; codes only need to be hard to guess casually.
		n := time.Now().UnixNano()
		for i := range b {
			b[i] = byte(n >> (8 * i))
		}
	}
	out := make([]byte, JoinCodeLength)
	for i, v := range b {
		out[i] = joinCodeAlphabet[int(v)%len(joinCodeAlphabet)]
	}
	return string(out)
}
