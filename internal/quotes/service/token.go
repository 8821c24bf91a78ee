package service

import (
	"crypto/rand"
	"encoding/hex"
)

// newPublicToken generates the non-guessable capability token embedded in
// client-facing quote links. Possession of the token plus the client email
// on file is what authorizes client-side mutations.
func newPublicToken() string {
	raw := make([]byte, 32)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}
