package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flightassist-service/internal/domain/entity"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOracle extracts search parameters with a Gemini model
type GeminiOracle struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiOracle initializes a new Gemini client
func NewGeminiOracle(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.1)
	model.SetMaxOutputTokens(300)

	return &GeminiOracle{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Close cleans up the Gemini client resources
func (o *GeminiOracle) Close() {
	o.client.Close()
}

// Name identifies the backend in logs and metrics
func (o *GeminiOracle) Name() string {
	return "gemini"
}

// ExtractParameters runs the full extraction pass
func (o *GeminiOracle) ExtractParameters(ctx context.Context, query string, reference time.Time) (*entity.OracleResult, error) {
	prompt := fmt.Sprintf("%s\n\nUser query: %q", buildExtractionPrompt(reference), query)
	content, err := o.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return decodeParameters(o.Name(), content)
}

// ExtractFilters runs the narrow filters-only pass
func (o *GeminiOracle) ExtractFilters(ctx context.Context, query string) (*entity.FilterResult, error) {
	prompt := fmt.Sprintf("%s\n\nUser query: %q", filterPrompt, query)
	content, err := o.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return decodeFilters(o.Name(), content)
}

func (o *GeminiOracle) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini generation error: %v", entity.ErrExtractionProvider, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no response candidates from Gemini", entity.ErrExtractionProvider)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}
	return responseText.String(), nil
}
