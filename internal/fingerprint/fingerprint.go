// Package fingerprint derives the stable content identity used for
// exact-duplicate detection.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"horse.fit/newsdesk/internal/textnorm"
)

const (
	descriptionPrefixLen = 200
	bodyPrefixLen        = 500
)

// Compute returns the hex SHA-256 fingerprint of an article's content. The
// title is included twice so that title edits move the fingerprint more than
// body edits do; description and body contribute bounded prefixes only.
func Compute(title, description, body string) string {
	normTitle := textnorm.Normalize(title)
	normDesc := textnorm.Truncate(textnorm.Normalize(description), descriptionPrefixLen)
	normBody := textnorm.Truncate(textnorm.Normalize(body), bodyPrefixLen)

	payload := strings.Join([]string{normTitle, normTitle, normDesc, normBody}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
