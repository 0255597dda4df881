// internal/providerfactory/factory.go

// Package providerfactory constructs the embedding and generation providers
// from the application configuration. Providers are built once at process
// start and shared by reference for the process lifetime.
package providerfactory

import (
	"fmt"

	"github.com/mwiater/repochat/internal/appconfig"
	"github.com/mwiater/repochat/internal/logging"
	"github.com/mwiater/repochat/internal/providers"
	"github.com/mwiater/repochat/internal/providers/ollama"
	"github.com/mwiater/repochat/internal/providers/openai"
)

// NewEmbedder constructs the embedding provider for the configured embedding
// host.
func NewEmbedder(cfg *appconfig.Config) (providers.Embedder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}
	host, err := cfg.EmbeddingHostConfig()
	if err != nil {
		return nil, err
	}
	provider, err := newForHost(cfg, host)
	if err != nil {
		return nil, err
	}
	logging.LogEvent("embedding provider ready: host=%s model=%s", host.Name, cfg.EmbeddingModel)
	return provider, nil
}

// NewGenerator constructs the generation provider for the configured
// generation host.
func NewGenerator(cfg *appconfig.Config) (providers.Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}
	host, err := cfg.GenerationHostConfig()
	if err != nil {
		return nil, err
	}
	provider, err := newForHost(cfg, host)
	if err != nil {
		return nil, err
	}
	logging.LogEvent("generation provider ready: host=%s", host.Name)
	return provider, nil
}

// capability is the union implemented by every concrete provider.
type capability interface {
	providers.Embedder
	providers.Generator
}

func newForHost(cfg *appconfig.Config, host appconfig.Host) (capability, error) {
	switch host.Type {
	case "", "ollama":
		return ollama.New(cfg, host), nil
	case "openai":
		return openai.New(cfg, host), nil
	default:
		return nil, fmt.Errorf("unsupported host type %q for host %q", host.Type, host.Name)
	}
}
