package analyze

import (
	"regexp"
	"strings"
)

const maxEntities = 10

var (
	// Capitalized runs ending in a corporate suffix.
	corporateRe = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&.]*(?:\s+[A-Z][A-Za-z0-9&.]*)*\s+(?:Inc|Corp|Ltd|LLC|Technologies|Tech|Labs|Systems))\b`)

	// Capitalized runs directly before a newsworthy action verb.
	actionRe = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&.]*(?:\s+[A-Z][A-Za-z0-9&.]*)*)\s+(?:raised|raises|announces|announced|launches|launched|acquires|acquired)\b`)
)

// excludedEntities are sentence-initial words and suffixes that the
// capitalization patterns pick up but that never name a company.
var excludedEntities = map[string]struct{}{
	"The": {}, "This": {}, "That": {}, "These": {}, "Those": {},
	"Inc": {}, "Corp": {}, "Ltd": {},
}

// Entities extracts likely organization names from text using corporate
// suffix and action-verb patterns. Results keep first-seen order, are
// deduplicated, and are capped at ten.
func Entities(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	entities := make([]string, 0, maxEntities)
	seen := make(map[string]struct{}, maxEntities)

	collect := func(matches [][]string) {
		for _, match := range matches {
			if len(entities) >= maxEntities {
				return
			}
			name := strings.TrimSpace(match[1])
			if name == "" {
				continue
			}
			if _, excluded := excludedEntities[name]; excluded {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			entities = append(entities, name)
		}
	}

	collect(corporateRe.FindAllStringSubmatch(text, -1))
	collect(actionRe.FindAllStringSubmatch(text, -1))

	if len(entities) == 0 {
		return nil
	}
	return entities
}
