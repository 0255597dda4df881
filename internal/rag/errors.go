package rag

import "errors"

var (
	// ErrEmptyIndexCorpus is returned when an index build receives no vectors.
	ErrEmptyIndexCorpus = errors.New("rag: no vectors to index")
	// ErrDimensionMismatch is returned when a vector disagrees with the index dimensionality.
	ErrDimensionMismatch = errors.New("rag: vector dimension mismatch")
	// ErrInvalidK is returned when a query asks for zero or fewer neighbors.
	ErrInvalidK = errors.New("rag: k must be greater than zero")
	// ErrNotIndexed is returned when a repository key has no registered index.
	ErrNotIndexed = errors.New("rag: repository not indexed")
)
