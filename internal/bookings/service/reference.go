package service

import (
	"crypto/rand"
	"time"
)

const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newReference builds a human-facing booking reference, e.g. BK-20260829-7KQ2.
// The random suffix keeps same-day references distinct; the caller retries on
// the rare collision.
func newReference(now time.Time) string {
	suffix := make([]byte, 4)
	raw := make([]byte, 4)
	_, _ = rand.Read(raw)
	for i, b := range raw {
		suffix[i] = referenceCharset[int(b)%len(referenceCharset)]
	}
	return "BK-" + now.Format("20060102") + "-" + string(suffix)
}
