package coauthor

import "errors"

// Common errors returned by the aggregator.
var (
	// ErrDatasetEmpty indicates there were no usable rows to build from.
	ErrDatasetEmpty = errors.New("dataset is empty")

	// ErrNotBuilt indicates a query was made before the full-history index exists.
	ErrNotBuilt = errors.New("collaboration index not built")

	// ErrAlreadyBuilt indicates Build was called on an aggregator that is already built.
	ErrAlreadyBuilt = errors.New("collaboration index already built")
)
