package services

import (
	"context"
	"errors"
	"sync"

	"github.com/amelnik/enhancer/internal/api"
	"github.com/amelnik/enhancer/internal/logging"
)

// HistoryState is the display state of the history list.
type HistoryState string

const (
	HistoryInitial         HistoryState = "INITIAL"
	HistoryLoaded          HistoryState = "LOADED"
	HistoryUnauthenticated HistoryState = "UNAUTHENTICATED"
	HistoryLoadError       HistoryState = "LOAD_ERROR"
)

const (
	msgLoginRequired = "Please log in to view your history."
	msgLoadFailed    = "Could not load history. Is the server running?"
)

// HistoryStore keeps the list of past jobs synchronized with the server.
// A refresh replaces the list wholesale; there is no incremental merge.
// Deletion commits locally only on server ack (confirm-then-commit, not
// speculative removal). Refreshes are tagged with a list generation so a
// response that resolves after the list has moved on is discarded.
type HistoryStore struct {
	client api.Client
	log    logging.Logger

	mu         sync.Mutex
	state      HistoryState
	items      []api.HistoryItem
	message    string
	generation uint64
}

func NewHistoryStore(client api.Client, log logging.Logger) *HistoryStore {
	return &HistoryStore{client: client, log: log, state: HistoryInitial}
}

// Refresh fetches the full history for the current session. 401 puts the
// store into HistoryUnauthenticated with an empty list; any other failure
// puts it into HistoryLoadError with a connectivity message. Both states are
// recoverable by calling Refresh again; there is no automatic retry.
func (h *HistoryStore) Refresh(ctx context.Context) error {
	h.mu.Lock()
	h.generation++
	gen := h.generation
	h.mu.Unlock()

	items, err := h.client.History(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if gen != h.generation {
		h.log.Debug(ctx, "discarding stale history response")
		return nil
	}

	switch {
	case errors.Is(err, api.ErrUnauthorized):
		h.state = HistoryUnauthenticated
		h.items = nil
		h.message = msgLoginRequired
	case err != nil:
		h.state = HistoryLoadError
		h.message = msgLoadFailed
		return err
	default:
		h.state = HistoryLoaded
		h.items = items
		h.message = ""
	}
	return nil
}

// Delete removes the item with the given id. The caller must have obtained
// explicit user confirmation before calling. The item is removed from the
// local list immediately after the server acknowledges, without a re-fetch;
// on failure the list is left untouched and the error is returned.
func (h *HistoryStore) Delete(ctx context.Context, id int64) error {
	if err := h.client.Delete(ctx, id); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// The list changed; any outstanding refresh result predates the
	// deletion and must not resurrect the item.
	h.generation++

	kept := h.items[:0]
	for _, it := range h.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	h.items = kept
	return nil
}

func (h *HistoryStore) State() HistoryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *HistoryStore) Message() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.message
}

// Items returns a copy of the current list, in server order.
func (h *HistoryStore) Items() []api.HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]api.HistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

// PreviewURL derives the inline preview URL for an item. Pure.
func (h *HistoryStore) PreviewURL(uniqueID string) string {
	return h.client.PreviewURL(uniqueID)
}

// DownloadURL derives the download URL for an item's processed image. Pure.
func (h *HistoryStore) DownloadURL(uniqueID string) string {
	return h.client.DownloadURL(uniqueID)
}
