// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrSourceMissing indicates the plan's source file is gone.
	ErrSourceMissing = errors.New("source file does not exist")

	// ErrPathTraversal indicates a target escapes the configured library roots.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrLocked indicates another apply or undo holds the history lock.
	ErrLocked = errors.New("another plexrename run holds the lock")

	// ErrBatchNotFound indicates the history has no batch with that ID.
	ErrBatchNotFound = errors.New("batch not found")

	// ErrNotUndoable indicates a copy batch, which left its sources in place.
	ErrNotUndoable = errors.New("copy batches cannot be undone")
)
