package service

import (
	"regexp"
	"testing"
)

func TestNewPublicToken_LengthAndUniqueness(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{64}$`)
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		token := newPublicToken()
		if !pattern.MatchString(token) {
			t.Fatalf("token %q is not 64 lowercase hex characters", token)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = struct{}{}
	}
}
