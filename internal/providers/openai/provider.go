// internal/providers/openai/provider.go
// Package openai provides embedding and generation backed by OpenAI-compatible endpoints.
package openai

import (
	"context"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/mwiater/repochat/internal/appconfig"
	"github.com/mwiater/repochat/internal/providers"
)

// Provider implements providers.Embedder and providers.Generator via the
// go-openai client, so any OpenAI-compatible server works as a host.
type Provider struct {
	client     *goopenai.Client
	embedModel string
}

// New constructs a Provider for the given host. The API key is resolved from
// the environment variable named by the host config; compatible servers that
// need no key accept an empty one.
func New(cfg *appconfig.Config, host appconfig.Host) *Provider {
	clientConfig := goopenai.DefaultConfig(host.APIKey())
	if strings.TrimSpace(host.URL) != "" {
		clientConfig.BaseURL = strings.TrimRight(host.URL, "/") + "/v1"
	}
	return &Provider{
		client:     goopenai.NewClientWithConfig(clientConfig),
		embedModel: cfg.EmbeddingModel,
	}
}

// Embed returns one vector per input text, in input order.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequestStrings{
		Input: texts,
		Model: goopenai.EmbeddingModel(p.embedModel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrModelUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", providers.ErrModelUnavailable, len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", providers.ErrModelUnavailable, item.Index)
		}
		vec := make([]float64, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float64(v)
		}
		vectors[item.Index] = vec
	}
	return vectors, nil
}

// EmbedOne returns the vector for a single text.
func (p *Provider) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EnsureModelReady confirms the model exists on the host.
func (p *Provider) EnsureModelReady(ctx context.Context, model string) error {
	if strings.TrimSpace(model) == "" {
		return fmt.Errorf("%w: model name is empty", providers.ErrModelUnavailable)
	}
	if _, err := p.client.GetModel(ctx, model); err != nil {
		return fmt.Errorf("%w: %s: %v", providers.ErrModelUnavailable, model, err)
	}
	return nil
}

// Generate runs a single-turn chat completion and returns the trimmed answer.
func (p *Provider) Generate(ctx context.Context, model, prompt string, opts providers.Options) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(opts.Temperature),
		TopP:        float32(opts.TopP),
		MaxTokens:   opts.NumPredict,
		// The OpenAI API has no repeat_penalty; frequency_penalty is centered
		// on 0 where repeat_penalty is centered on 1.
		FrequencyPenalty: float32(opts.RepeatPenalty - 1),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", providers.ErrGenerationFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", providers.ErrGenerationFailure)
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("%w: model returned an empty response", providers.ErrGenerationFailure)
	}
	return answer, nil
}
