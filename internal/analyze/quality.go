package analyze

import "strings"

// highValueKeywords mark newsworthy business events. Each keyword present
// in the title is worth three points, capped at 15.
var highValueKeywords = []string{
	"funding", "raises", "startup", "ipo", "acquisition",
	"merger", "launch", "partnership", "investment", "series",
	"round", "breakthrough", "innovation", "growth", "expansion",
}

var placeholderMarkers = []string{"lorem ipsum", "placeholder", "test content"}

// Quality scores an article 0-100 from structural signals: title shape,
// title keywords, body and description length, and sentence structure.
// Placeholder content is penalized.
func Quality(title, description, body string) int {
	score := 0

	titleWords := len(strings.Fields(title))
	switch {
	case titleWords >= 5 && titleWords <= 15:
		score += 15
	case titleWords >= 3 && titleWords <= 20:
		score += 10
	default:
		score += 5
	}

	titleLower := strings.ToLower(title)
	keywordPoints := 0
	for _, keyword := range highValueKeywords {
		if strings.Contains(titleLower, keyword) {
			keywordPoints += 3
		}
	}
	if keywordPoints > 15 {
		keywordPoints = 15
	}
	score += keywordPoints

	bodyLen := len(body)
	switch {
	case bodyLen > 2000:
		score += 25
	case bodyLen > 1000:
		score += 20
	case bodyLen > 500:
		score += 15
	case bodyLen > 200:
		score += 10
	default:
		score += 5
	}

	switch {
	case len(description) > 50:
		score += 10
	case len(description) > 0:
		score += 5
	}

	sentences := splitSentences(body)
	if len(sentences) > 5 {
		score += 10
		if sentenceLengthVariety(sentences) {
			score += 5
		}
	}

	bodyLower := strings.ToLower(body)
	for _, marker := range placeholderMarkers {
		if strings.Contains(bodyLower, marker) {
			score -= 20
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// sentenceLengthVariety reports whether sentence lengths vary enough to
// suggest written prose rather than templated filler.
func sentenceLengthVariety(sentences []string) bool {
	lengths := make(map[int]struct{}, len(sentences))
	for _, sentence := range sentences {
		lengths[len(strings.Fields(sentence))] = struct{}{}
	}
	return len(lengths) >= 4
}
