package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"horse.fit/newsdesk/internal/textnorm"
)

const (
	geminiEndpointFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	geminiBodyPrefixLen  = 3000
	defaultGeminiTimeout = 30 * time.Second
)

// GeminiOptions configures the Gemini provider.
type GeminiOptions struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Client  *http.Client
}

// Gemini generates insight through the Generative Language REST API.
type Gemini struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func NewGemini(opts GeminiOptions) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Gemini{
		apiKey:  opts.APIKey,
		model:   model,
		timeout: timeout,
		client:  client,
	}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, in Input) (*Insight, error) {
	if g == nil {
		return nil, fmt.Errorf("gemini provider is not initialized")
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(in)}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	endpoint := fmt.Sprintf(geminiEndpointFormat, g.model)
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini response has no candidates")
	}

	return parseInsight(parsed.Candidates[0].Content.Parts[0].Text)
}

func buildPrompt(in Input) string {
	var sb strings.Builder
	sb.WriteString("You are an editorial assistant for a startup news desk.\n")
	sb.WriteString("Analyze the article below and respond with JSON only, using exactly these keys:\n")
	sb.WriteString(`{"tags": [5 to 8 short lowercase topic tags], "summary": "a 55-60 word summary", "category": "one of `)
	sb.WriteString(strings.Join(TopicCategories, ", "))
	sb.WriteString("\"}\n\n")
	sb.WriteString("Title: " + in.Title + "\n")
	if strings.TrimSpace(in.Description) != "" {
		sb.WriteString("Description: " + in.Description + "\n")
	}
	if body := textnorm.Truncate(in.Body, geminiBodyPrefixLen); strings.TrimSpace(body) != "" {
		sb.WriteString("Body: " + body + "\n")
	}
	return sb.String()
}
