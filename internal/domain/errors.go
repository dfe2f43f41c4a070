package domain

import "errors"

var (
	// ErrProductNotFound is returned when a query SKU has no listing in
	// the home store snapshot.
	ErrProductNotFound = errors.New("product not found in snapshot")

	// ErrInsufficientInput is returned when a matching run is invoked
	// with empty listings or an empty catalog.
	ErrInsufficientInput = errors.New("insufficient input for matching run")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrStaleSnapshot is returned when the cached snapshot is older
	// than the configured TTL and must be reloaded by the caller.
	ErrStaleSnapshot = errors.New("snapshot is stale")

	// ErrSnapshotMissing is returned when no snapshot has been loaded yet.
	ErrSnapshotMissing = errors.New("no snapshot loaded")

	// ErrRunNotFound is returned when a persisted match run id is unknown.
	ErrRunNotFound = errors.New("match run not found")
)
