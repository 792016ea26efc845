package insight

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"horse.fit/newsdesk/internal/similarity"
	"horse.fit/newsdesk/internal/textnorm"
)

const (
	localTagCount    = 5
	summaryWordLimit = 60
)

// categoryKeywords drive the heuristic topic classifier. First category with
// a keyword hit in priority order wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{category: "funding", keywords: []string{"funding", "raises", "raised", "series a", "series b", "series c", "seed round", "investment", "investors", "valuation"}},
	{category: "acquisition", keywords: []string{"acquisition", "acquires", "acquired", "merger", "buyout", "takes over"}},
	{category: "product-launch", keywords: []string{"launch", "launches", "launched", "unveils", "introduces", "rolls out", "new product"}},
	{category: "partnership", keywords: []string{"partnership", "partners with", "collaboration", "joint venture", "ties up", "alliance"}},
	{category: "regulatory", keywords: []string{"regulator", "regulatory", "compliance", "court", "lawsuit", "sebi", "rbi", "antitrust", "ban", "government"}},
	{category: "human-resources", keywords: []string{"layoff", "layoffs", "hires", "hiring", "appoints", "resigns", "steps down", "ceo", "cto", "workforce"}},
}

var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// Local generates insight from keyword heuristics. It never errs and needs
// no network.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (l *Local) Name() string { return "local" }

func (l *Local) Generate(_ context.Context, in Input) (*Insight, error) {
	return &Insight{
		Tags:          topKeywords(in.Title+" "+in.Description+" "+in.Body, localTagCount),
		Summary:       summarize(in),
		TopicCategory: classifyCategory(in.Title + " " + in.Description + " " + in.Body),
	}, nil
}

func classifyCategory(text string) string {
	lowered := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.category
			}
		}
	}
	return DefaultTopicCategory
}

// topKeywords returns the n most frequent content words in display form.
func topKeywords(text string, n int) []string {
	words := strings.Fields(textnorm.Normalize(text))
	counts := make(map[string]int, len(words))
	order := make(map[string]int, len(words))
	for i, word := range words {
		if len(word) < 3 || similarity.IsStopword(word) {
			continue
		}
		if _, seen := counts[word]; !seen {
			order[word] = i
		}
		counts[word]++
	}

	keywords := make([]string, 0, len(counts))
	for word := range counts {
		keywords = append(keywords, word)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return order[keywords[i]] < order[keywords[j]]
	})

	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// summarize takes the first two sentences of the body, or the description
// when the body is empty, bounded to the summary word limit.
func summarize(in Input) string {
	source := strings.TrimSpace(in.Body)
	if source != "" {
		sentences := sentenceEndRe.Split(source, 3)
		if len(sentences) > 2 {
			sentences = sentences[:2]
		}
		source = strings.Join(sentences, ". ")
	} else {
		source = strings.TrimSpace(in.Description)
	}
	if source == "" {
		source = strings.TrimSpace(in.Title)
	}

	words := strings.Fields(source)
	if len(words) > summaryWordLimit {
		words = words[:summaryWordLimit]
	}
	summary := strings.Join(words, " ")
	if summary != "" && !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	return summary
}
