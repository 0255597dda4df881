// internal/providers/ollama/provider.go
// Package ollama provides embedding and generation backed by Ollama-compatible HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/repochat/internal/appconfig"
	"github.com/mwiater/repochat/internal/logging"
	"github.com/mwiater/repochat/internal/providers"
)

// Provider implements providers.Embedder and providers.Generator against one
// Ollama host. The embedding model is fixed at construction; the generation
// model is chosen per request.
type Provider struct {
	host       appconfig.Host
	embedModel string
	client     *http.Client
	timeout    time.Duration
	debug      bool
}

// New constructs a Provider for the given host using the application's
// request timeout.
func New(cfg *appconfig.Config, host appconfig.Host) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		host:       host,
		embedModel: cfg.EmbeddingModel,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

// embedRequest is the payload for the /api/embed endpoint.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is the /api/embed response; Embeddings[i] corresponds to Input[i].
type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

type pullResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Embed returns one vector per input text via the /api/embed endpoint.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if strings.TrimSpace(p.embedModel) == "" {
		return nil, fmt.Errorf("%w: embedding model is empty", providers.ErrModelUnavailable)
	}

	body, err := json.Marshal(embedRequest{Model: p.embedModel, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	raw, err := p.post(ctx, "/api/embed", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrModelUnavailable, err)
	}

	var parsed embedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embed response: %w", err)
	}
	if len(parsed.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", providers.ErrModelUnavailable, len(parsed.Embeddings), len(texts))
	}
	for i, vec := range parsed.Embeddings {
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: empty vector at position %d", providers.ErrModelUnavailable, i)
		}
	}
	return parsed.Embeddings, nil
}

// EmbedOne returns the vector for a single text.
func (p *Provider) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EnsureModelReady pulls the model via /api/pull so the first generation does
// not fail on a model that was never downloaded.
func (p *Provider) EnsureModelReady(ctx context.Context, model string) error {
	if strings.TrimSpace(model) == "" {
		return fmt.Errorf("%w: model name is empty", providers.ErrModelUnavailable)
	}

	body, err := json.Marshal(pullRequest{Name: model, Stream: false})
	if err != nil {
		return fmt.Errorf("marshal pull request: %w", err)
	}

	raw, err := p.post(ctx, "/api/pull", body)
	if err != nil {
		return fmt.Errorf("%w: pull %s: %v", providers.ErrModelUnavailable, model, err)
	}

	var parsed pullResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse pull response: %w", err)
	}
	if parsed.Error != "" {
		return fmt.Errorf("%w: pull %s: %s", providers.ErrModelUnavailable, model, parsed.Error)
	}
	return nil
}

// Generate runs a non-streaming /api/generate request and returns the
// trimmed response text.
func (p *Provider) Generate(ctx context.Context, model, prompt string, opts providers.Options) (string, error) {
	payload := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature":    opts.Temperature,
			"top_p":          opts.TopP,
			"repeat_penalty": opts.RepeatPenalty,
			"num_predict":    opts.NumPredict,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	raw, err := p.post(ctx, "/api/generate", body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", providers.ErrGenerationFailure, err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse generate response: %w", err)
	}
	answer := strings.TrimSpace(parsed.Response)
	if answer == "" {
		return "", fmt.Errorf("%w: model returned an empty response", providers.ErrGenerationFailure)
	}
	return answer, nil
}

// post sends a JSON POST to the host and returns the response body, failing
// on any non-200 status.
func (p *Provider) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := p.host.URL + path
	if p.debug {
		logging.LogRequest("REPOCHAT->LLM", p.host.Name, "", body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s: %s", path, resp.Status, strings.TrimSpace(string(raw)))
	}
	if p.debug {
		logging.LogRequest("LLM->REPOCHAT", p.host.Name, "", raw)
	}
	return raw, nil
}
