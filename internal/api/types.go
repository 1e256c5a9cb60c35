package api

import "strings"

// JobStatus is the closed set of processing states the backend reports for an
// enhancement job. Raw status strings are normalized into this enumeration
// once, at the API boundary, so the rest of the client never compares server
// casing.
type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusProcessing JobStatus = "PROCESSING"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusFailed     JobStatus = "FAILED"
	StatusUnknown    JobStatus = "UNKNOWN"
)

// ParseJobStatus normalizes a server-reported status string.
// Unrecognized values map to StatusUnknown.
func ParseJobStatus(s string) JobStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING":
		return StatusPending
	case "PROCESSING":
		return StatusProcessing
	case "COMPLETED":
		return StatusCompleted
	case "FAILED":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Downloadable reports whether the processed artifact can be fetched.
// Only completed jobs expose a download.
func (s JobStatus) Downloadable() bool {
	return s == StatusCompleted
}

// Terminal reports whether the job will make no further progress.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// AuthStatus is the result of the authentication probe.
type AuthStatus struct {
	Authenticated bool
	Username      string
}

// HistoryItem is one past enhancement job as reported by the server.
// ID addresses the record for deletion; UniqueID addresses the stored
// image bytes for preview and download.
type HistoryItem struct {
	ID               int64
	UniqueID         string
	OriginalFilename string
	Status           JobStatus
	Date             string
}

// UploadResult is the synchronous outcome of an upload request. The backend
// processes the image before responding, so Status is already terminal on a
// successful round trip. Filename is the unique id of the stored artifact and
// is only meaningful when Status is StatusCompleted.
type UploadResult struct {
	Status   JobStatus
	Filename string
	Message  string
}
