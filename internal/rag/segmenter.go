// internal/rag/segmenter.go
// Package rag implements the retrieval pipeline: segmenting a flattened
// repository dump into chunks, indexing chunk embeddings for exact
// nearest-neighbor search, registering indices per session, retrieving
// passages for a query, and composing a grounded prompt from them.
package rag

import "strings"

// DefaultMaxChars is the default chunk window size in runes.
const DefaultMaxChars = 600

// Chunk is a bounded-length contiguous span of source text, the unit of
// retrieval. Position is the chunk's ordinal within one ingest and ties the
// chunk to the row of the same position in its VectorIndex.
type Chunk struct {
	Position int
	Text     string
}

// Segment splits text into consecutive non-overlapping windows of at most
// maxChars runes, trims each window, and drops windows that are empty after
// trimming. Chunk order follows source order. Empty input yields nil.
func Segment(text string, maxChars int) []Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	runes := []rune(text)
	var chunks []Chunk
	for i := 0; i < len(runes); i += maxChars {
		end := i + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		span := strings.TrimSpace(string(runes[i:end]))
		if span == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			Position: len(chunks),
			Text:     span,
		})
	}
	return chunks
}
