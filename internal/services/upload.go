package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/amelnik/enhancer/internal/api"
	"github.com/amelnik/enhancer/internal/logging"
)

// UploadState is the lifecycle of the single in-flight enhancement job.
type UploadState string

const (
	UploadIdle      UploadState = "IDLE"
	UploadSelected  UploadState = "SELECTED"
	UploadUploading UploadState = "UPLOADING"
	UploadCompleted UploadState = "COMPLETED"
	UploadFailed    UploadState = "FAILED"
)

// FileOpener defers opening the selected file until submit time, so selection
// itself holds no OS resources.
type FileOpener func() (io.ReadCloser, error)

// UploadController owns the single upload job. Selecting a file starts a new
// job and discards the previous one's terminal state; submitting drives it to
// Completed or Failed. There is no retry and no polling: the backend finishes
// processing before it responds, so one round trip resolves the job.
//
// Each selection gets a fresh generation tag. A submit captures the tag and a
// response is applied only if the tag still matches, so an upload resolved
// after the user switched files cannot clobber the newer job.
type UploadController struct {
	client api.Client
	log    logging.Logger

	mu         sync.Mutex
	state      UploadState
	fileName   string
	open       FileOpener
	preview    string
	remoteID   string
	message    string
	generation string
}

func NewUploadController(client api.Client, log logging.Logger) *UploadController {
	return &UploadController{client: client, log: log, state: UploadIdle}
}

// Select makes the given file the current job. Any prior preview handle and
// terminal state (including a recorded remote id) are discarded. Selecting
// while an upload is in flight is allowed; the in-flight response will be
// dropped as stale when it resolves. Returns the new preview handle.
func (u *UploadController) Select(name string, open FileOpener) string {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.fileName = name
	u.open = open
	u.generation = uuid.NewString()
	u.preview = "preview://" + u.generation + "/" + name
	u.remoteID = ""
	u.state = UploadSelected
	u.message = "File selected: " + name
	return u.preview
}

// Submit uploads the selected file and resolves the job from the synchronous
// response. With no file selected it returns ErrNoFileSelected and issues no
// network request. The returned message is the user-facing outcome text.
func (u *UploadController) Submit(ctx context.Context) (string, error) {
	u.mu.Lock()
	if u.open == nil {
		u.mu.Unlock()
		return "", ErrNoFileSelected
	}
	if u.state == UploadUploading {
		u.mu.Unlock()
		return "", ErrBusy
	}
	gen := u.generation
	name, open := u.fileName, u.open
	u.state = UploadUploading
	u.message = "Uploading and processing..."
	u.mu.Unlock()

	f, err := open()
	if err != nil {
		return u.resolve(ctx, gen, UploadFailed, "", fmt.Sprintf("Could not read file: %v", err))
	}
	res, err := u.client.Upload(ctx, name, f)
	f.Close()

	if err != nil {
		return u.resolve(ctx, gen, UploadFailed, "", uploadFailureMessage(err))
	}
	if res.Status == api.StatusCompleted {
		msg := fmt.Sprintf("Success! Image enhancement is %s.", res.Status)
		return u.resolve(ctx, gen, UploadCompleted, res.Filename, msg)
	}

	// The server accepted the upload but reported something other than
	// completion; surface its message and keep the job non-terminal.
	msg := res.Message
	if msg == "" {
		msg = fmt.Sprintf("Server reported status %s.", res.Status)
	}
	return u.resolve(ctx, gen, UploadSelected, "", msg)
}

// resolve applies a submit outcome, unless the selection changed while the
// request was outstanding; stale outcomes are logged and dropped.
func (u *UploadController) resolve(ctx context.Context, gen string, state UploadState, remoteID, message string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if gen != u.generation {
		u.log.Debug(ctx, "discarding stale upload response", "state", state)
		return "", nil
	}
	u.state = state
	u.remoteID = remoteID
	u.message = message
	return message, nil
}

func uploadFailureMessage(err error) string {
	if errors.Is(err, api.ErrUnavailable) {
		return "Network connection failed. Is the server running?"
	}
	var srvErr *api.ServerError
	if errors.As(err, &srvErr) {
		return "Upload failed: " + srvErr.Message
	}
	return "Upload failed: server error occurred."
}

func (u *UploadController) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *UploadController) FileName() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.fileName
}

// Preview returns the opaque handle for displaying the current selection,
// or "" when nothing is selected.
func (u *UploadController) Preview() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.preview
}

// RemoteID identifies the downloadable artifact; set only on completion.
func (u *UploadController) RemoteID() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.remoteID
}

func (u *UploadController) Message() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.message
}

// DownloadURL derives the retrieval URL for the completed job, or "" if the
// job has no remote artifact. Pure apart from reading controller state.
func (u *UploadController) DownloadURL() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.remoteID == "" {
		return ""
	}
	return u.client.DownloadURL(u.remoteID)
}
