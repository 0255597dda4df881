// internal/providerfactory/factory_test.go
package providerfactory

import (
	"testing"

	"github.com/mwiater/repochat/internal/appconfig"
	"github.com/mwiater/repochat/internal/providers/ollama"
	"github.com/mwiater/repochat/internal/providers/openai"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		Hosts: []appconfig.Host{
			{Name: "local", URL: "http://localhost:11434", Type: "ollama"},
			{Name: "untyped", URL: "http://localhost:11434"},
			{Name: "compat", URL: "https://api.example.com", Type: "openai"},
			{Name: "odd", URL: "http://localhost:9999", Type: "faiss"},
		},
		EmbeddingHost:  "local",
		EmbeddingModel: "nomic-embed-text",
		GenerationHost: "compat",
	}
}

func TestNewEmbedderErrorsOnNilConfig(t *testing.T) {
	if _, err := NewEmbedder(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewEmbedderSelectsOllama(t *testing.T) {
	embedder, err := NewEmbedder(testConfig())
	if err != nil {
		t.Fatalf("NewEmbedder error: %v", err)
	}
	if _, ok := embedder.(*ollama.Provider); !ok {
		t.Fatalf("expected ollama.Provider, got %T", embedder)
	}
}

func TestNewGeneratorSelectsOpenAI(t *testing.T) {
	generator, err := NewGenerator(testConfig())
	if err != nil {
		t.Fatalf("NewGenerator error: %v", err)
	}
	if _, ok := generator.(*openai.Provider); !ok {
		t.Fatalf("expected openai.Provider, got %T", generator)
	}
}

func TestEmptyHostTypeDefaultsToOllama(t *testing.T) {
	cfg := testConfig()
	cfg.EmbeddingHost = "untyped"
	embedder, err := NewEmbedder(cfg)
	if err != nil {
		t.Fatalf("NewEmbedder error: %v", err)
	}
	if _, ok := embedder.(*ollama.Provider); !ok {
		t.Fatalf("expected ollama.Provider, got %T", embedder)
	}
}

func TestUnsupportedHostTypeRejected(t *testing.T) {
	cfg := testConfig()
	cfg.GenerationHost = "odd"
	if _, err := NewGenerator(cfg); err == nil {
		t.Fatal("expected error for unsupported host type")
	}
}
