package service

import (
	"regexp"
	"testing"
	"time"
)

func TestNewReference_Format(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^BK-20260829-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}$`)

	for i := 0; i < 50; i++ {
		ref := newReference(now)
		if !pattern.MatchString(ref) {
			t.Fatalf("reference %q does not match expected format", ref)
		}
	}
}
