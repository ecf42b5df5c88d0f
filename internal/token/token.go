// Package token generates short public identifiers. Collision handling
// is the caller's job: generate, attempt insert against a uniqueness
// constraint, retry on conflict.
package token

import "crypto/rand"

// Ambiguous characters (0/O, 1/I/L) are excluded so the ids survive
// being read aloud or retyped.
const alphabet = "23456789ABCDEFGHJKMNPQRSTVWXYZ"

// New returns a random identifier of n characters.
func New(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
