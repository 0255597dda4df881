package rag

import (
	"errors"
	"testing"
)

func TestBuildIndexEmptyFails(t *testing.T) {
	if _, err := BuildIndex(nil); !errors.Is(err, ErrEmptyIndexCorpus) {
		t.Fatalf("expected ErrEmptyIndexCorpus, got %v", err)
	}
}

func TestBuildIndexDimensionMismatch(t *testing.T) {
	_, err := BuildIndex([][]float64{{1, 0}, {1, 0, 0}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestQueryOrdersByDistance(t *testing.T) {
	index, err := BuildIndex([][]float64{{0, 0}, {1, 0}, {5, 5}})
	if err != nil {
		t.Fatalf("BuildIndex error: %v", err)
	}

	neighbors, err := index.Query([]float64{0, 0}, 2)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(neighbors))
	}
	if neighbors[0].Row != 0 || neighbors[0].Distance != 0 {
		t.Fatalf("expected row 0 at distance 0, got %+v", neighbors[0])
	}
	if neighbors[1].Row != 1 || neighbors[1].Distance != 1 {
		t.Fatalf("expected row 1 at distance 1, got %+v", neighbors[1])
	}
}

func TestQueryTiesBreakByRow(t *testing.T) {
	// Duplicate vectors tie on distance; order must follow original rows.
	index, err := BuildIndex([][]float64{{1, 1}, {1, 1}, {0, 0}, {1, 1}})
	if err != nil {
		t.Fatalf("BuildIndex error: %v", err)
	}

	neighbors, err := index.Query([]float64{1, 1}, 4)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	wantRows := []int{0, 1, 3, 2}
	for i, want := range wantRows {
		if neighbors[i].Row != want {
			t.Fatalf("position %d: got row %d want %d (%+v)", i, neighbors[i].Row, want, neighbors)
		}
	}
	for i := 1; i < len(neighbors); i++ {
		if neighbors[i].Distance < neighbors[i-1].Distance {
			t.Fatalf("distances not non-decreasing: %+v", neighbors)
		}
	}
}

func TestQueryClampsToIndexSize(t *testing.T) {
	index, err := BuildIndex([][]float64{{0}, {1}})
	if err != nil {
		t.Fatalf("BuildIndex error: %v", err)
	}
	neighbors, err := index.Query([]float64{0}, 10)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected all rows, got %d", len(neighbors))
	}
}

func TestQueryInvalidK(t *testing.T) {
	index, err := BuildIndex([][]float64{{0, 0}})
	if err != nil {
		t.Fatalf("BuildIndex error: %v", err)
	}
	for _, k := range []int{0, -1} {
		if _, err := index.Query([]float64{0, 0}, k); !errors.Is(err, ErrInvalidK) {
			t.Fatalf("k=%d: expected ErrInvalidK, got %v", k, err)
		}
	}
}

func TestQueryVectorDimensionMismatch(t *testing.T) {
	index, err := BuildIndex([][]float64{{0, 0}})
	if err != nil {
		t.Fatalf("BuildIndex error: %v", err)
	}
	if _, err := index.Query([]float64{0, 0, 0}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestBuildIndexCopiesVectors(t *testing.T) {
	source := [][]float64{{1, 2}}
	index, err := BuildIndex(source)
	if err != nil {
		t.Fatalf("BuildIndex error: %v", err)
	}
	source[0][0] = 99

	neighbors, err := index.Query([]float64{1, 2}, 1)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if neighbors[0].Distance != 0 {
		t.Fatalf("index must not alias caller vectors, distance %f", neighbors[0].Distance)
	}
}
