// internal/rag/retriever.go
package rag

import (
	"context"
	"fmt"
)

// DefaultTopK is the number of passages retrieved per question when the
// configuration does not override it.
const DefaultTopK = 5

// Embedder supplies fixed-dimension vectors for text. The underlying model is
// constructed once per process and shared read-only across sessions.
type Embedder interface {
	// Embed returns one vector per input text, position-preserving.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// EmbedOne returns the vector for a single text.
	EmbedOne(ctx context.Context, text string) ([]float64, error)
}

// Retriever answers top-k passage lookups against registered indices.
type Retriever struct {
	embedder Embedder
	registry *Registry
}

// NewRetriever returns a Retriever backed by the given embedder and registry.
func NewRetriever(embedder Embedder, registry *Registry) *Retriever {
	return &Retriever{embedder: embedder, registry: registry}
}

// Retrieve embeds query, queries the index registered under key, and returns
// up to k passage texts ordered most relevant first. No passage appears
// twice. A key with no registered index propagates ErrNotIndexed.
func (r *Retriever) Retrieve(ctx context.Context, key RepositoryKey, query string, k int) ([]string, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	index, chunks, err := r.registry.Get(key)
	if err != nil {
		return nil, err
	}

	vec, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	neighbors, err := index.Query(vec, k)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	passages := make([]string, len(neighbors))
	for i, n := range neighbors {
		passages[i] = chunks[n.Row].Text
	}
	return passages, nil
}

// BuildCorpusIndex segments text, embeds every chunk, and builds the index
// over the resulting vectors. The returned index and chunk list are the same
// length with row r holding chunk r's vector; nothing is registered here, so
// a failed build leaves no partial state behind.
func BuildCorpusIndex(ctx context.Context, embedder Embedder, text string, maxChars int) (*VectorIndex, []Chunk, error) {
	chunks := Segment(text, maxChars)
	if len(chunks) == 0 {
		return nil, nil, ErrEmptyIndexCorpus
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	index, err := BuildIndex(vectors)
	if err != nil {
		return nil, nil, err
	}
	return index, chunks, nil
}
