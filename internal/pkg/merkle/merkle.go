package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrNoLeaves = errors.New("merkle root requires at least one leaf")

// Sum returns the hex-encoded SHA-256 of s.
func Sum(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Combine hashes the concatenation of a and b with the lexicographically
// smaller input first, so Combine(a, b) == Combine(b, a). Independent
// verifiers can recompute pair hashes without knowing sibling order.
func Combine(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return Sum(a + b)
}

// Root computes the Merkle root over leaves: each leaf is hashed, then
// adjacent hashes are combined level by level until one remains. An odd
// node at the end of a level is paired with itself.
func Root(leaves []string) (string, error) {
	if len(leaves) == 0 {
		return "", ErrNoLeaves
	}

	level := make([]string, len(leaves))
	for i, leaf := range leaves {
		level[i] = Sum(leaf)
	}

	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, Combine(level[i], level[i+1]))
			} else {
				next = append(next, Combine(level[i], level[i]))
			}
		}
		level = next
	}

	return level[0], nil
}
