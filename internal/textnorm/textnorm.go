// Package textnorm canonicalizes article text so that fingerprinting and
// similarity scoring see the same representation regardless of scraper
// formatting quirks.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// boilerplateTokens are publisher names and wire-agency credits that inflate
// similarity between unrelated articles from the same outlet.
var boilerplateTokens = map[string]struct{}{
	"inc42":        {},
	"entrackr":     {},
	"moneycontrol": {},
	"startupnews":  {},
	"source":       {},
	"image":        {},
	"reuters":      {},
	"pti":          {},
	"ians":         {},
}

// Normalize lowercases, strips punctuation, and collapses runs of whitespace
// to single spaces. It is idempotent and safe on empty input.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	stripped := nonWordRe.ReplaceAllString(lowered, " ")
	collapsed := whitespaceRe.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}

// StripBoilerplate removes publisher boilerplate tokens from already
// normalized text. It is applied before similarity scoring only, never
// before fingerprinting.
func StripBoilerplate(normalized string) string {
	if normalized == "" {
		return ""
	}
	fields := strings.Fields(normalized)
	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, drop := boilerplateTokens[field]; drop {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

// FirstWords returns the first n whitespace-separated words of normalized
// text, joined by single spaces.
func FirstWords(normalized string, n int) string {
	if normalized == "" || n <= 0 {
		return ""
	}
	fields := strings.Fields(normalized)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

// Truncate returns at most n bytes of s. Used when weighting fields into the
// fingerprint input.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
