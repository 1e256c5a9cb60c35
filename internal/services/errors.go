package services

import "errors"

var (
	// ErrBusy means the same operation is already in flight; the duplicate
	// submit is rejected until the first one resolves.
	ErrBusy = errors.New("operation already in progress")

	// ErrNoFileSelected means submit was called before a file was chosen.
	// No network request is issued in that case.
	ErrNoFileSelected = errors.New("no file selected")
)
