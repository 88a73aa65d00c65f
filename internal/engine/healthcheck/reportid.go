// internal/engine/healthcheck/reportid.go
package healthcheck

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var reportIDPattern = regexp.MustCompile(`^HC-\d+-[a-z0-9]+$`)

// NewReportID returns an identifier of the form HC-<ms timestamp>-<9 char
// base36 suffix>. Unique enough for direct lookup, not cryptographically
// guaranteed.
func NewReportID() string {
	suffix := make([]byte, 9)
	raw := make([]byte, 9)
	if _, err := rand.Read(raw); err != nil {
		// Degrade to a time-derived suffix; collisions stay negligible.
		for i := range suffix {
			suffix[i] = base36Alphabet[int(time.Now().UnixNano()>>uint(i*4))%len(base36Alphabet)]
		}
		return fmt.Sprintf("HC-%d-%s", time.Now().UnixMilli(), suffix)
	}
	for i, b := range raw {
		suffix[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return fmt.Sprintf("HC-%d-%s", time.Now().UnixMilli(), suffix)
}

// IsValidReportID reports whether the identifier has the report ID shape.
// Lookups reject malformed IDs before touching the store.
func IsValidReportID(id string) bool {
	return reportIDPattern.MatchString(id)
}
