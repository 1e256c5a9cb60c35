package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/amelnik/enhancer/internal/api"
)

// Download fetches a processed image by its unique id (or server filename)
// and writes it to dest, defaulting to "enhanced_<id>" in the working
// directory.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(a.out, "Usage: download <unique_id> [dest]")
		return nil
	}
	ref := args[0]
	dest := "enhanced_" + ref
	if len(args) == 2 {
		dest = args[1]
	}

	f, err := os.Create(dest)
	if err != nil {
		fmt.Fprintf(a.out, "Cannot create %s: %v\n", dest, err)
		return nil
	}

	n, err := a.client.Download(ctx, ref, f)
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(dest)
		var srvErr *api.ServerError
		switch {
		case errors.As(err, &srvErr):
			fmt.Fprintf(a.out, "Download failed: %s\n", srvErr.Message)
		case errors.Is(err, api.ErrUnavailable):
			fmt.Fprintln(a.out, "Network error. Is the backend running?")
		default:
			fmt.Fprintf(a.out, "Download failed: %v\n", err)
		}
		return nil
	}
	if closeErr != nil {
		fmt.Fprintf(a.out, "Error writing %s: %v\n", dest, closeErr)
		return nil
	}

	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, dest)
	return nil
}
