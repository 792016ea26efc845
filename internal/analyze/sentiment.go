package analyze

import "strings"

var positiveWords = map[string]struct{}{
	"growth": {}, "success": {}, "successful": {}, "profit": {}, "profitable": {},
	"gain": {}, "gains": {}, "strong": {}, "record": {}, "expansion": {},
	"innovative": {}, "breakthrough": {}, "milestone": {}, "surge": {},
	"rally": {}, "boost": {}, "win": {}, "wins": {}, "opportunity": {},
	"optimistic": {}, "positive": {}, "improve": {}, "improved": {},
	"rise": {}, "rises": {}, "soar": {}, "leading": {}, "best": {},
}

var negativeWords = map[string]struct{}{
	"loss": {}, "losses": {}, "decline": {}, "fall": {}, "falls": {},
	"drop": {}, "drops": {}, "weak": {}, "fail": {}, "failed": {},
	"failure": {}, "layoff": {}, "layoffs": {}, "shutdown": {}, "fraud": {},
	"lawsuit": {}, "penalty": {}, "crisis": {}, "debt": {}, "bankrupt": {},
	"bankruptcy": {}, "negative": {}, "concern": {}, "concerns": {},
	"risk": {}, "worst": {}, "plunge": {}, "crash": {}, "scandal": {},
}

// Sentiment scores text in [-1, 1] from lexicon hits, scaled by text length.
// Empty text scores exactly 0.
func Sentiment(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	var positive, negative int
	for _, word := range words {
		trimmed := strings.Trim(word, ".,!?:;\"'()[]")
		if _, ok := positiveWords[trimmed]; ok {
			positive++
			continue
		}
		if _, ok := negativeWords[trimmed]; ok {
			negative++
		}
	}

	score := float64(positive-negative) / float64(len(words)) * 10
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}
