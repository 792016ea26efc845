// Package insight produces editorial enrichment for an article: tags, a
// short summary, and a topic category. A remote model provider is preferred
// when configured; the local heuristic provider is always available and is
// the fallback for every remote failure.
package insight

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// TopicCategories is the closed set of categories a provider may assign.
var TopicCategories = []string{
	"funding",
	"product-launch",
	"acquisition",
	"partnership",
	"regulatory",
	"human-resources",
	"general-news",
}

const DefaultTopicCategory = "general-news"

// Input is the article content handed to a provider.
type Input struct {
	Title       string
	Description string
	Body        string
}

// Insight is a provider's enrichment output.
type Insight struct {
	Tags          []string `json:"tags"`
	Summary       string   `json:"summary"`
	TopicCategory string   `json:"category"`
}

// Generator produces insight for one article.
type Generator interface {
	Name() string
	Generate(ctx context.Context, in Input) (*Insight, error)
}

// Service wraps a primary provider with the local fallback. Generation
// never fails: any primary error degrades to heuristics.
type Service struct {
	primary  Generator
	fallback Generator
	logger   zerolog.Logger
}

// NewService builds a service. Primary may be nil, in which case the local
// provider serves every request.
func NewService(primary Generator, logger zerolog.Logger) *Service {
	return &Service{
		primary:  primary,
		fallback: NewLocal(),
		logger:   logger,
	}
}

// Generate returns normalized insight for the article along with the name
// of the provider that produced it.
func (s *Service) Generate(ctx context.Context, in Input) (*Insight, string) {
	if s.primary != nil {
		result, err := s.primary.Generate(ctx, in)
		if err == nil && result != nil {
			return normalizeInsight(result, in), s.primary.Name()
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("provider", s.primary.Name()).Msg("insight provider failed, using local heuristics")
		}
	}

	result, err := s.fallback.Generate(ctx, in)
	if err != nil || result == nil {
		// The local provider is total; this branch guards against future
		// implementations only.
		return &Insight{TopicCategory: DefaultTopicCategory}, s.fallback.Name()
	}
	return normalizeInsight(result, in), s.fallback.Name()
}

// normalizeInsight enforces the output contract: trimmed lowercase tags
// without duplicates, a category from the closed set, and a non-empty
// summary.
func normalizeInsight(in *Insight, input Input) *Insight {
	out := &Insight{
		Summary:       strings.TrimSpace(in.Summary),
		TopicCategory: strings.ToLower(strings.TrimSpace(in.TopicCategory)),
	}

	seen := make(map[string]struct{}, len(in.Tags))
	for _, tag := range in.Tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		out.Tags = append(out.Tags, cleaned)
	}

	if !validCategory(out.TopicCategory) {
		out.TopicCategory = classifyCategory(input.Title + " " + input.Description + " " + input.Body)
	}
	if out.Summary == "" {
		out.Summary = summarize(input)
	}
	return out
}

func validCategory(category string) bool {
	for _, known := range TopicCategories {
		if known == category {
			return true
		}
	}
	return false
}
