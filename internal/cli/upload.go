package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/amelnik/enhancer/internal/services"
)

// Select chooses the image to enhance. Any previous selection, preview, and
// job outcome are discarded. Accepted formats are enforced by the server.
func (a *App) Select(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: select <path-to-image>")
		return nil
	}
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(a.out, "Cannot read file: %v\n", err)
		return nil
	}
	if info.IsDir() {
		fmt.Fprintf(a.out, "%s is a directory\n", path)
		return nil
	}

	a.uploads.Select(filepath.Base(path), func() (io.ReadCloser, error) {
		return os.Open(path)
	})
	fmt.Fprintln(a.out, a.uploads.Message())
	return nil
}

// Submit uploads the selected image and reports the outcome. The backend
// responds only after processing, so a successful round trip already carries
// the terminal status and the download reference.
func (a *App) Submit(ctx context.Context) error {
	msg, err := a.uploads.Submit(ctx)
	switch {
	case errors.Is(err, services.ErrNoFileSelected):
		fmt.Fprintln(a.out, "Please select an image first.")
		return nil
	case errors.Is(err, services.ErrBusy):
		fmt.Fprintln(a.out, "An upload is already in progress.")
		return nil
	case err != nil:
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return nil
	}

	if msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	if url := a.uploads.DownloadURL(); url != "" {
		fmt.Fprintf(a.out, "Download the enhanced image: %s\n", url)
		fmt.Fprintf(a.out, "Or run: download %s\n", a.uploads.RemoteID())
	}
	return nil
}
