// Package llm implements the model-backed extraction strategy: each
// page's plain text goes to a generative model that returns question
// records as a JSON array in the output database schema.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yuukibui/jlpt-extract/internal/extract"
)

// GeminiExtractor extracts question records via the Gemini API. It
// implements extract.QuestionExtractor. The API client is built once,
// on the first page, and reused for the rest of the scan.
type GeminiExtractor struct {
	apiKey string
	model  string

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGeminiExtractor creates an extractor for the given API key and
// model name.
func NewGeminiExtractor(apiKey, model string) *GeminiExtractor {
	return &GeminiExtractor{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

// Close releases the underlying API client, if one was ever built.
func (g *GeminiExtractor) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiExtractor) init(ctx context.Context) (*genai.Client, error) {
	g.initOnce.Do(func() {
		g.client, g.initErr = genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	})
	return g.client, g.initErr
}

// ExtractPage submits one page's text and decodes the JSON array
// response. An unparsable response is an error for this page only; the
// caller decides whether the scan continues.
func (g *GeminiExtractor) ExtractPage(ctx context.Context, pageText string, pageNumber int) ([]extract.Record, error) {
	if g.apiKey == "" {
		return nil, errors.New("gemini API key is empty")
	}

	cl, err := g.init(ctx)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	m := cl.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	resp, err := m.GenerateContent(ctx, genai.Text(buildPagePrompt(pageText, pageNumber)))
	if err != nil {
		return nil, fmt.Errorf("gemini page %d: %w", pageNumber, err)
	}

	text := firstText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini page %d: empty response", pageNumber)
	}

	records, err := decodeRecords(text)
	if err != nil {
		return nil, fmt.Errorf("gemini page %d: %w", pageNumber, err)
	}
	for i := range records {
		if records[i].SourcePage == 0 {
			records[i].SourcePage = pageNumber
		}
	}
	return records, nil
}

// decodeRecords parses a JSON array of records, stripping a markdown
// code fence first if the model wrapped its response in one.
func decodeRecords(text string) ([]extract.Record, error) {
	text = stripCodeFences(strings.TrimSpace(text))
	var records []extract.Record
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, fmt.Errorf("bad JSON: %w (raw: %s)", err, truncate(text, 200))
	}
	return records, nil
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeFences(s string) string {
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
