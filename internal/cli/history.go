package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/amelnik/enhancer/internal/api"
	"github.com/amelnik/enhancer/internal/services"
)

// History re-fetches the list from the server and renders it. Failures leave
// the store in a recoverable display state; running the command again is the
// retry.
func (a *App) History(ctx context.Context) error {
	if err := a.history.Refresh(ctx); err != nil {
		a.log.Debug(ctx, "history refresh failed", "error", err)
	}

	switch a.history.State() {
	case services.HistoryUnauthenticated, services.HistoryLoadError:
		fmt.Fprintln(a.out, a.history.Message())
		return nil
	}

	items := a.history.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "You haven't uploaded any files yet.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(a.out)
	tw.AppendHeader(table.Row{"ID", "File", "Status", "Date", "Result"})
	for _, it := range items {
		result := "processing..."
		switch {
		case it.Status.Downloadable():
			result = a.history.DownloadURL(it.UniqueID)
		case it.Status == api.StatusFailed:
			result = "failed"
		}
		tw.AppendRow(table.Row{it.ID, it.OriginalFilename, it.Status, it.Date, result})
	}
	tw.Render()
	return nil
}

// Delete removes one history item after an explicit confirmation. The local
// list is updated only once the server acknowledges.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid id: %s\n", args[0])
		return nil
	}

	ok, err := Confirm(a.reader, "Are you sure you want to delete this image? This cannot be undone.", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.history.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Failed to delete the file.")
		a.log.Debug(ctx, "delete failed", "id", id, "error", err)
		return nil
	}
	fmt.Fprintln(a.out, "File deleted.")
	return nil
}
