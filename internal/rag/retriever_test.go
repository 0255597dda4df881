package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// stubEmbedder maps known texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, ok := s.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no stub vector for %q", text)
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func TestRetrieveRanksByDistance(t *testing.T) {
	registry := NewRegistry()
	chunks := []Chunk{
		{Position: 0, Text: "zero"},
		{Position: 1, Text: "one"},
		{Position: 2, Text: "far"},
	}
	index := mustIndex(t, [][]float64{{0, 0}, {1, 0}, {5, 5}})
	key := KeyFor("s", "repo")
	registry.Put(key, index, chunks)

	embedder := &stubEmbedder{vectors: map[string][]float64{"query": {0, 0}}}
	retriever := NewRetriever(embedder, registry)

	passages, err := retriever.Retrieve(context.Background(), key, "query", 2)
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0] != "zero" || passages[1] != "one" {
		t.Fatalf("unexpected rank order: %v", passages)
	}
}

func TestRetrieveUnknownKey(t *testing.T) {
	retriever := NewRetriever(&stubEmbedder{}, NewRegistry())
	if _, err := retriever.Retrieve(context.Background(), KeyFor("s", "missing"), "q", 5); !errors.Is(err, ErrNotIndexed) {
		t.Fatalf("expected ErrNotIndexed, got %v", err)
	}
}

func TestRetrieveClampsToChunkCount(t *testing.T) {
	registry := NewRegistry()
	key := KeyFor("s", "repo")
	registry.Put(key, mustIndex(t, [][]float64{{0}}), []Chunk{{Position: 0, Text: "only"}})

	embedder := &stubEmbedder{vectors: map[string][]float64{"q": {0}}}
	retriever := NewRetriever(embedder, registry)

	passages, err := retriever.Retrieve(context.Background(), key, "q", 5)
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(passages))
	}
}

func TestRetrievePropagatesEmbedderFailure(t *testing.T) {
	registry := NewRegistry()
	key := KeyFor("s", "repo")
	registry.Put(key, mustIndex(t, [][]float64{{0}}), []Chunk{{Position: 0, Text: "only"}})

	wantErr := errors.New("model offline")
	retriever := NewRetriever(&stubEmbedder{err: wantErr}, registry)
	if _, err := retriever.Retrieve(context.Background(), key, "q", 1); !errors.Is(err, wantErr) {
		t.Fatalf("expected embedder error, got %v", err)
	}
}

func TestBuildCorpusIndexAlignsChunksAndVectors(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"abcd": {0, 0},
		"efgh": {1, 0},
		"ij":   {5, 5},
	}}

	index, chunks, err := BuildCorpusIndex(context.Background(), embedder, "abcdefghij", 4)
	if err != nil {
		t.Fatalf("BuildCorpusIndex error: %v", err)
	}
	if index.Len() != len(chunks) {
		t.Fatalf("invariant broken: %d vectors, %d chunks", index.Len(), len(chunks))
	}
	if len(chunks) != 3 || chunks[2].Text != "ij" {
		t.Fatalf("unexpected chunks: %#v", chunks)
	}
}

func TestBuildCorpusIndexEmptyText(t *testing.T) {
	_, _, err := BuildCorpusIndex(context.Background(), &stubEmbedder{}, "   ", 4)
	if !errors.Is(err, ErrEmptyIndexCorpus) {
		t.Fatalf("expected ErrEmptyIndexCorpus, got %v", err)
	}
}
