package ingestion

import (
	"regexp"
	"strings"
	"time"
)

// ordinalRe strips day-of-month ordinal suffixes ("June 3rd, 2025").
var ordinalRe = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)\b`)

// publishDateLayouts covers the formats the supported scrapers emit.
var publishDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
	"January 2, 2006 / 15:04",
	"2 January, 2006",
	"January 2, 2006",
}

// ParsePublishDate parses a scraped date string into UTC. A nil result means
// the value was empty or unrecognized; an unparseable date never fails an
// ingest.
func ParsePublishDate(raw string) *time.Time {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}
	cleaned = ordinalRe.ReplaceAllString(cleaned, "$1")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	for _, layout := range publishDateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
