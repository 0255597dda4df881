// internal/rag/index.go
package rag

import (
	"fmt"
	"sort"
)

// VectorIndex is an immutable flat index over chunk embeddings. Row r holds
// the vector for the chunk at position r of the same ingest. Queries are
// exact brute-force squared Euclidean distance; corpora here are thousands of
// chunks, not millions, so no approximate structure is used.
type VectorIndex struct {
	dim     int
	vectors [][]float64
}

// Neighbor is one query result: the matching row and its squared distance.
type Neighbor struct {
	Row      int
	Distance float64
}

// BuildIndex constructs an index over exactly the given vectors. The index
// dimensionality is fixed by the first vector; any vector of a different
// length fails the whole build.
func BuildIndex(vectors [][]float64) (*VectorIndex, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyIndexCorpus
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: first vector is empty", ErrDimensionMismatch)
	}
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		row := make([]float64, dim)
		copy(row, v)
		rows[i] = row
	}
	return &VectorIndex{dim: dim, vectors: rows}, nil
}

// Len returns the number of indexed rows.
func (ix *VectorIndex) Len() int { return len(ix.vectors) }

// Dimension returns the fixed vector dimensionality of the index.
func (ix *VectorIndex) Dimension() int { return ix.dim }

// Query returns up to k rows nearest to vec by ascending squared Euclidean
// distance. Ties break by ascending row so results are deterministic and
// prompts built from them are reproducible. Fewer than k rows returns them
// all.
func (ix *VectorIndex) Query(vec []float64, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if len(vec) != ix.dim {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, want %d", ErrDimensionMismatch, len(vec), ix.dim)
	}

	neighbors := make([]Neighbor, len(ix.vectors))
	for row, stored := range ix.vectors {
		neighbors[row] = Neighbor{Row: row, Distance: squaredDistance(vec, stored)}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].Row < neighbors[j].Row
	})

	if k > len(neighbors) {
		k = len(neighbors)
	}
	return neighbors[:k], nil
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
