// internal/providers/provider.go

// Package providers defines the capability interfaces for the external
// embedding and generation models, plus the generation options shared by all
// provider implementations (e.g., Ollama, OpenAI-compatible). Providers are
// constructed once at process start and shared read-only across sessions.
package providers

import (
	"context"
	"errors"

	"github.com/mwiater/repochat/internal/appconfig"
)

var (
	// ErrModelUnavailable is returned when an embedding or generation model
	// failed to initialize, pull, or respond.
	ErrModelUnavailable = errors.New("providers: model unavailable")
	// ErrGenerationFailure is returned when a generation request was accepted
	// but did not produce a usable answer.
	ErrGenerationFailure = errors.New("providers: generation failed")
)

// Options controls sampling for a generation request.
type Options struct {
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
	NumPredict    int
}

// DefaultOptions returns the sampling defaults used when the configuration
// does not override a field.
func DefaultOptions() Options {
	return Options{
		Temperature:   0.7,
		TopP:          0.9,
		RepeatPenalty: 1.15,
		NumPredict:    256,
	}
}

// FromParameters merges configured parameters over the defaults.
func FromParameters(p appconfig.Parameters) Options {
	opts := DefaultOptions()
	if p.Temperature != nil {
		opts.Temperature = *p.Temperature
	}
	if p.TopP != nil {
		opts.TopP = *p.TopP
	}
	if p.RepeatPenalty != nil {
		opts.RepeatPenalty = *p.RepeatPenalty
	}
	if p.NumPredict != nil {
		opts.NumPredict = *p.NumPredict
	}
	return opts
}

// Embedder maps text to fixed-dimension vectors. Implementations must be
// safe for concurrent use and must preserve input order: output[i]
// corresponds to input[i]. Model identity is fixed at construction for the
// process lifetime.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	EmbedOne(ctx context.Context, text string) ([]float64, error)
}

// Generator produces text from a prompt. EnsureModelReady confirms (pulls or
// loads) the model before first use; confirmation failure is a hard error and
// is not retried.
type Generator interface {
	EnsureModelReady(ctx context.Context, model string) error
	Generate(ctx context.Context, model, prompt string, opts Options) (string, error)
}
