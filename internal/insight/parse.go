package insight

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRe   = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	tagsRe    = regexp.MustCompile(`"tags"\s*:\s*\[([^\]]+)\]`)
	summaryRe = regexp.MustCompile(`"summary"\s*:\s*"([^"]+)"`)
	catRe     = regexp.MustCompile(`"category"\s*:\s*"([^"]+)"`)
)

// parseInsight decodes a model response. Well-formed JSON is preferred;
// responses wrapped in markdown fences or with trailing prose are salvaged
// field by field.
func parseInsight(raw string) (*Insight, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty model response")
	}

	if fenced := fenceRe.FindStringSubmatch(trimmed); len(fenced) == 2 {
		trimmed = strings.TrimSpace(fenced[1])
	}

	var parsed Insight
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return &parsed, nil
	}

	salvaged := &Insight{}
	if match := tagsRe.FindStringSubmatch(trimmed); len(match) == 2 {
		for _, part := range strings.Split(match[1], ",") {
			tag := strings.Trim(strings.TrimSpace(part), `"'`)
			if tag != "" {
				salvaged.Tags = append(salvaged.Tags, tag)
			}
		}
	}
	if match := summaryRe.FindStringSubmatch(trimmed); len(match) == 2 {
		salvaged.Summary = strings.TrimSpace(match[1])
	}
	if match := catRe.FindStringSubmatch(trimmed); len(match) == 2 {
		salvaged.TopicCategory = strings.TrimSpace(match[1])
	}

	if len(salvaged.Tags) == 0 && salvaged.Summary == "" && salvaged.TopicCategory == "" {
		return nil, fmt.Errorf("model response is not parseable JSON")
	}
	return salvaged, nil
}
