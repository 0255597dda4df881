package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiater/repochat/internal/appconfig"
	"github.com/mwiater/repochat/internal/providers"
)

func testProvider(serverURL string) *Provider {
	cfg := &appconfig.Config{
		EmbeddingModel: "nomic-embed-text",
		TimeoutSeconds: 5,
	}
	host := appconfig.Host{Name: "test", URL: serverURL, Type: "ollama"}
	return New(cfg, host)
}

func TestEmbedPreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("unexpected model %q", req.Model)
		}
		resp := embedResponse{Embeddings: make([][]float64, len(req.Input))}
		for i := range req.Input {
			resp.Embeddings[i] = []float64{float64(i), float64(len(req.Input[i]))}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	vectors, err := p.Embed(context.Background(), []string{"aa", "bbbb"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 0 || vectors[1][0] != 1 {
		t.Fatalf("order not preserved: %v", vectors)
	}
}

func TestEmbedServerErrorIsModelUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	if _, err := p.Embed(context.Background(), []string{"x"}); !errors.Is(err, providers.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float64{{1}}})
	}))
	defer server.Close()

	p := testProvider(server.URL)
	if _, err := p.Embed(context.Background(), []string{"a", "b"}); !errors.Is(err, providers.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable on count mismatch, got %v", err)
	}
}

func TestGenerateReturnsTrimmedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected non-streaming request")
		}
		if req.Options["num_predict"] != float64(256) {
			t.Errorf("unexpected options: %v", req.Options)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Model: req.Model, Response: "  the answer  ", Done: true})
	}))
	defer server.Close()

	p := testProvider(server.URL)
	answer, err := p.Generate(context.Background(), "mistral", "prompt", providers.DefaultOptions())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if answer != "the answer" {
		t.Fatalf("expected trimmed answer, got %q", answer)
	}
}

func TestGenerateEmptyResponseFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "   ", Done: true})
	}))
	defer server.Close()

	p := testProvider(server.URL)
	if _, err := p.Generate(context.Background(), "mistral", "prompt", providers.DefaultOptions()); !errors.Is(err, providers.ErrGenerationFailure) {
		t.Fatalf("expected ErrGenerationFailure, got %v", err)
	}
}

func TestEnsureModelReadyPulls(t *testing.T) {
	var pulled string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pull" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req pullRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		pulled = req.Name
		_ = json.NewEncoder(w).Encode(pullResponse{Status: "success"})
	}))
	defer server.Close()

	p := testProvider(server.URL)
	if err := p.EnsureModelReady(context.Background(), "mistral"); err != nil {
		t.Fatalf("EnsureModelReady error: %v", err)
	}
	if pulled != "mistral" {
		t.Fatalf("expected pull of mistral, got %q", pulled)
	}
}

func TestEnsureModelReadyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pullResponse{Error: "no such model"})
	}))
	defer server.Close()

	p := testProvider(server.URL)
	if err := p.EnsureModelReady(context.Background(), "missing"); !errors.Is(err, providers.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
