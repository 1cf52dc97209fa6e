package service

import "errors"

var (
	// ErrInvalidState is returned when an operation requires a running
	// workspace and the workspace is in any other state.
	ErrInvalidState = errors.New("workspace not running")

	// ErrPermissionDenied is returned when a non-owner attempts an
	// owner-only mutation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPortsExhausted is returned when the configured workspace port
	// range has no free port left.
	ErrPortsExhausted = errors.New("no available workspace ports")

	// ErrEmbeddingUnavailable is returned when semantic search cannot
	// compute a query embedding.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRuntimeFailure is returned when the container runtime rejects a
	// workspace start. Cleanup has already run by the time it surfaces.
	ErrRuntimeFailure = errors.New("container runtime failure")
)
