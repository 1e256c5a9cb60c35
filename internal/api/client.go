// Package api defines the contract with the enhancement backend and its HTTP
// implementation. All raw transport and parsing failures are converted here
// into the client error taxonomy (ErrUnavailable, ErrUnauthorized,
// ServerError); callers never see *url.Error or status codes directly.
package api

import (
	"context"
	"io"
)

// Client is the surface the controllers use to reach the backend.
//
// Contract:
//   - CheckAuth: best-effort probe of the current session.
//   - Login: authenticate with email/password; returns the server-reported
//     username (may be empty).
//   - Register: create an account; returns the server message. Registration
//     does not authenticate.
//   - Upload: submit an image for enhancement; the backend responds only
//     after processing finished, so the result carries a terminal status.
//   - History / Delete: list and remove past jobs.
//   - Download: fetch stored image bytes by unique id or filename.
//   - DownloadURL / PreviewURL: pure URL derivation, no I/O.
//
// All methods must honor context cancellation.
type Client interface {
	Close() error
	CheckAuth(ctx context.Context) (AuthStatus, error)
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, username, password string) (string, error)
	Upload(ctx context.Context, filename string, file io.Reader) (UploadResult, error)
	History(ctx context.Context) ([]HistoryItem, error)
	Delete(ctx context.Context, id int64) error
	Download(ctx context.Context, ref string, w io.Writer) (int64, error)
	DownloadURL(ref string) string
	PreviewURL(uniqueID string) string
}
