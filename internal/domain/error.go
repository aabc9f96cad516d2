package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Pipeline errors
	ErrFetchFailed         = errors.New("fetch failed")
	ErrBriefPlanning       = errors.New("brief planning failed")
	ErrAllAttemptsFailed   = errors.New("all generation attempts failed")
	ErrEmptyArtifact       = errors.New("generator returned empty artifact")
	ErrMalformedArtifact   = errors.New("generated artifact is not an HTML document")
	ErrQueueFull           = errors.New("job queue is full")
	ErrJobAlreadyTerminal  = errors.New("job already reached a terminal state")
	ErrVersionNotAvailable = errors.New("requested version is not available")
)
