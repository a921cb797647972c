// Package history remembers the most recent search queries.
package history

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fknsrs.biz/p/ytbrowse/internal/prefstore"
)

const (
	StorageKey = "youtubeSearchHistory"
	MaxEntries = 5
)

type History struct {
	store prefstore.Store

	m       sync.RWMutex
	loaded  bool
	entries []string
}

func New(store prefstore.Store) *History {
	return &History{store: store, entries: []string{}}
}

func (h *History) Load(ctx context.Context) error {
	h.m.Lock()
	defer h.m.Unlock()

	return h.load(ctx)
}

func (h *History) load(ctx context.Context) error {
	if h.loaded {
		return nil
	}

	entries, err := prefstore.LoadStrings(ctx, h.store, StorageKey)
	if err != nil {
		return fmt.Errorf("history.History.load: %w", err)
	}

	h.entries = normalize(entries)
	h.loaded = true

	return nil
}

// normalize trims stored entries and drops blanks and repeats, keeping the
// first (most recent) occurrence, up to MaxEntries.
func normalize(entries []string) []string {
	a := []string{}
	seen := make(map[string]bool)

	for _, e := range entries {
		if len(a) == MaxEntries {
			break
		}

		if e = strings.TrimSpace(e); e == "" || seen[e] {
			continue
		}

		seen[e] = true
		a = append(a, e)
	}

	return a
}

// Add moves query to the front of the history, dropping older entries beyond
// MaxEntries. Blank queries are ignored.
func (h *History) Add(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	h.m.Lock()
	defer h.m.Unlock()

	if err := h.load(ctx); err != nil {
		return fmt.Errorf("history.History.Add: %w", err)
	}

	entries := []string{query}
	for _, e := range h.entries {
		if len(entries) == MaxEntries {
			break
		}

		if e != query {
			entries = append(entries, e)
		}
	}

	if err := prefstore.SaveStrings(ctx, h.store, StorageKey, entries); err != nil {
		return fmt.Errorf("history.History.Add: %w", err)
	}

	h.entries = entries

	return nil
}

// List returns queries most recent first.
func (h *History) List() []string {
	h.m.RLock()
	defer h.m.RUnlock()

	a := make([]string, len(h.entries))
	copy(a, h.entries)

	return a
}

func (h *History) Clear(ctx context.Context) error {
	h.m.Lock()
	defer h.m.Unlock()

	if err := prefstore.SaveStrings(ctx, h.store, StorageKey, nil); err != nil {
		return fmt.Errorf("history.History.Clear: %w", err)
	}

	h.entries = []string{}
	h.loaded = true

	return nil
}
