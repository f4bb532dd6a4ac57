package oracle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOracle extracts search parameters with an OpenAI-compatible chat model
type OpenAIOracle struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIOracle creates a new OpenAI extraction oracle.
// baseURL may point at any OpenAI-compatible endpoint; empty keeps the default.
func NewOpenAIOracle(apiKey, model, baseURL string, timeout time.Duration) repository.ExtractionOracle {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIOracle{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}
}

// Name identifies the backend in logs and metrics
func (o *OpenAIOracle) Name() string {
	return "openai"
}

// ExtractParameters runs the full extraction pass
func (o *OpenAIOracle) ExtractParameters(ctx context.Context, query string, reference time.Time) (*entity.OracleResult, error) {
	content, err := o.complete(ctx, buildExtractionPrompt(reference), query, 300)
	if err != nil {
		return nil, err
	}
	return decodeParameters(o.Name(), content)
}

// ExtractFilters runs the narrow filters-only pass
func (o *OpenAIOracle) ExtractFilters(ctx context.Context, query string) (*entity.FilterResult, error) {
	content, err := o.complete(ctx, filterPrompt, query, 200)
	if err != nil {
		return nil, err
	}
	return decodeFilters(o.Name(), content)
}

func (o *OpenAIOracle) complete(ctx context.Context, systemPrompt, query string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.1,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", entity.ErrExtractionProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", entity.ErrExtractionProvider)
	}
	return resp.Choices[0].Message.Content, nil
}
