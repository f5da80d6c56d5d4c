package processor

import "errors"

var (
	// ErrNoInput means no file, directory, or category was supplied.
	ErrNoInput = errors.New("no input selected")
	// ErrNoMatchingFiles means a directory scan or category selection found nothing to do.
	ErrNoMatchingFiles = errors.New("no matching files")
	// ErrNotYetClassified means repair was requested for a file with no classification.
	ErrNotYetClassified = errors.New("file has not been classified; run detection first")
	// ErrBusy means a batch is still in flight on this orchestrator.
	ErrBusy = errors.New("a batch is already running")
	// ErrOutputCollision means another input in the same batch repairs to the same output path.
	ErrOutputCollision = errors.New("output path collides with another input")
)
