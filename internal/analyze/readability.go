package analyze

import (
	"fmt"
	"regexp"
	"strings"
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Readability returns the Flesch reading-ease score of the text, clamped to
// [0, 100]. Empty text scores 0.
func Readability(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, nil
	}

	sentences := splitSentences(trimmed)
	words := strings.Fields(trimmed)
	if len(sentences) == 0 || len(words) == 0 {
		return 0, fmt.Errorf("no sentences or words in text")
	}

	totalSyllables := 0
	for _, word := range words {
		totalSyllables += countSyllables(word)
	}

	avgSentenceLen := float64(len(words)) / float64(len(sentences))
	avgSyllables := float64(totalSyllables) / float64(len(words))

	score := 206.835 - 1.015*avgSentenceLen - 84.6*avgSyllables
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

func splitSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// countSyllables approximates syllables as vowel clusters, with a correction
// for silent trailing "e" and consonant-le endings. Every word counts at
// least one.
func countSyllables(word string) int {
	lowered := strings.ToLower(strings.Trim(word, ".,!?:;\"'()[]"))
	if lowered == "" {
		return 1
	}

	count := 0
	previousVowel := false
	for _, r := range lowered {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !previousVowel {
			count++
		}
		previousVowel = vowel
	}

	if strings.HasSuffix(lowered, "e") {
		count--
	}
	if strings.HasSuffix(lowered, "le") && len(lowered) > 2 && !strings.ContainsRune("aeiouy", rune(lowered[len(lowered)-3])) {
		count++
	}

	if count < 1 {
		count = 1
	}
	return count
}
