package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amelnik/enhancer/internal/api"
)

func stringOpener(s string) FileOpener {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(s)), nil
	}
}

func TestSelect_ReplacesPreviousSelection(t *testing.T) {
	u := NewUploadController(&fakeClient{}, testLogger())

	previewA := u.Select("a.png", stringOpener("aaa"))
	require.Equal(t, UploadSelected, u.State())
	require.Equal(t, "a.png", u.FileName())

	previewB := u.Select("b.png", stringOpener("bbb"))
	require.Equal(t, UploadSelected, u.State())
	require.Equal(t, "b.png", u.FileName())
	require.Equal(t, previewB, u.Preview())
	require.NotEqual(t, previewA, previewB)
	require.Empty(t, u.RemoteID())
}

func TestSelect_ClearsPriorTerminalState(t *testing.T) {
	fc := &fakeClient{UploadRet: api.UploadResult{Status: api.StatusCompleted, Filename: "abc123"}}
	u := NewUploadController(fc, testLogger())

	u.Select("a.png", stringOpener("aaa"))
	_, err := u.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, UploadCompleted, u.State())
	require.Equal(t, "abc123", u.RemoteID())

	u.Select("b.png", stringOpener("bbb"))
	require.Equal(t, UploadSelected, u.State())
	require.Empty(t, u.RemoteID())
	require.Empty(t, u.DownloadURL())
}

func TestSubmit_NoFileSelected(t *testing.T) {
	fc := &fakeClient{}
	u := NewUploadController(fc, testLogger())

	_, err := u.Submit(context.Background())
	require.ErrorIs(t, err, ErrNoFileSelected)
	require.Equal(t, UploadIdle, u.State())
	require.Zero(t, fc.Calls("upload"))
}

func TestSubmit_Completed(t *testing.T) {
	fc := &fakeClient{UploadRet: api.UploadResult{
		Status:   api.StatusCompleted,
		Filename: "abc123",
		Message:  "File uploaded and processed successfully.",
	}}
	u := NewUploadController(fc, testLogger())

	u.Select("cat.png", stringOpener("img"))
	msg, err := u.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, UploadCompleted, u.State())
	require.Equal(t, "abc123", u.RemoteID())
	require.True(t, strings.HasSuffix(u.DownloadURL(), "/api/download/abc123"))
	require.Contains(t, msg, "COMPLETED")
	require.Equal(t, "cat.png", fc.LastUploadName)
}

func TestSubmit_NonCompletedStatusKeepsJobOpen(t *testing.T) {
	fc := &fakeClient{UploadRet: api.UploadResult{
		Status:  api.StatusFailed,
		Message: "File uploaded, but processing failed.",
	}}
	u := NewUploadController(fc, testLogger())

	u.Select("cat.png", stringOpener("img"))
	msg, err := u.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, "File uploaded, but processing failed.", msg)
	require.Empty(t, u.RemoteID())
	require.Empty(t, u.DownloadURL())
	require.Equal(t, UploadSelected, u.State())
}

func TestSubmit_ServerRejection(t *testing.T) {
	fc := &fakeClient{UploadErr: &api.ServerError{Status: 400, Message: "File type not allowed"}}
	u := NewUploadController(fc, testLogger())

	u.Select("cat.gif", stringOpener("img"))
	msg, err := u.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, UploadFailed, u.State())
	require.Equal(t, "Upload failed: File type not allowed", msg)
	require.Empty(t, u.RemoteID())
}

func TestSubmit_TransportFailure(t *testing.T) {
	fc := &fakeClient{UploadErr: fmt.Errorf("%w: connection refused", api.ErrUnavailable)}
	u := NewUploadController(fc, testLogger())

	u.Select("cat.png", stringOpener("img"))
	msg, err := u.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, UploadFailed, u.State())
	require.Equal(t, "Network connection failed. Is the server running?", msg)
}

func TestSubmit_UnreadableFile(t *testing.T) {
	fc := &fakeClient{}
	u := NewUploadController(fc, testLogger())

	u.Select("gone.png", func() (io.ReadCloser, error) {
		return nil, fmt.Errorf("open gone.png: no such file")
	})
	_, err := u.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, UploadFailed, u.State())
	require.Zero(t, fc.Calls("upload"))
}

func TestSubmit_WhileUploadingRejected(t *testing.T) {
	fc := &fakeClient{
		UploadRet:     api.UploadResult{Status: api.StatusCompleted, Filename: "abc123"},
		UploadEntered: make(chan struct{}),
		UploadRelease: make(chan struct{}),
	}
	u := NewUploadController(fc, testLogger())
	u.Select("cat.png", stringOpener("img"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = u.Submit(context.Background())
	}()

	<-fc.UploadEntered
	require.Equal(t, UploadUploading, u.State())
	_, err := u.Submit(context.Background())
	require.ErrorIs(t, err, ErrBusy)

	close(fc.UploadRelease)
	<-done
	require.Equal(t, UploadCompleted, u.State())
}

func TestSubmit_StaleResponseDiscarded(t *testing.T) {
	fc := &fakeClient{
		UploadRet:     api.UploadResult{Status: api.StatusCompleted, Filename: "abc123"},
		UploadEntered: make(chan struct{}),
		UploadRelease: make(chan struct{}),
	}
	u := NewUploadController(fc, testLogger())
	u.Select("a.png", stringOpener("aaa"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = u.Submit(context.Background())
	}()

	// The user switches files while the upload is still in flight; the
	// response that eventually resolves belongs to the old job and must not
	// clobber the new selection.
	<-fc.UploadEntered
	u.Select("b.png", stringOpener("bbb"))

	close(fc.UploadRelease)
	<-done

	require.Equal(t, UploadSelected, u.State())
	require.Equal(t, "b.png", u.FileName())
	require.Empty(t, u.RemoteID())
	require.Equal(t, "File selected: b.png", u.Message())
}
