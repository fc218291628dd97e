package keywords

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/hyperjump/toikake/pkg/utils"
)

const extractPrompt = "Extract the most relevant keywords from this text, focusing on technical terms, " +
	"tools, and concepts. Return only a comma-separated list of keywords."

// LLMExtractor extracts keywords through an OpenAI-compatible chat model.
type LLMExtractor struct {
	client   llms.Model
	maxChars int
	logger   *zap.Logger
}

// NewLLMExtractor creates an extractor against the given base URL and model.
// token may be any non-empty string for local services that skip auth.
// maxChars caps how much document text is sent per request.
func NewLLMExtractor(baseURL, model, token string, maxChars int, logger *zap.Logger) (*LLMExtractor, error) {
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create chat client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExtractor{client: client, maxChars: maxChars, logger: logger}, nil
}

// Extract sends the text to the model and parses the comma-separated reply.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	if e.maxChars > 0 && len(text) > e.maxChars {
		text = text[:e.maxChars]
	}
	content := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(extractPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}
	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("keyword extraction failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("keyword extraction returned no choices")
	}
	raw := response.Choices[0].Content
	kws := ParseKeywords(raw)
	e.logger.Debug("extracted keywords",
		zap.Int("count", len(kws)),
		zap.String("raw", utils.Truncate(raw, 200)),
	)
	return kws, nil
}
