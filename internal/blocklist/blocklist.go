// Package blocklist hides videos whose title or channel name contains one of
// the user's blocked keywords.
package blocklist

import (
	"context"
	"fmt"
	"sync"

	"fknsrs.biz/p/ytbrowse/internal/prefstore"
	"fknsrs.biz/p/ytbrowse/internal/stringutil"
	"fknsrs.biz/p/ytbrowse/models"
)

const StorageKey = "youtube-blocklist"

type Filter struct {
	store prefstore.Store

	m        sync.RWMutex
	loaded   bool
	keywords []string
}

func New(store prefstore.Store) *Filter {
	return &Filter{store: store, keywords: []string{}}
}

// Load reads the stored keywords. Only the first successful call touches
// storage; until then nothing is reported as blocked.
func (f *Filter) Load(ctx context.Context) error {
	f.m.Lock()
	defer f.m.Unlock()

	return f.load(ctx)
}

func (f *Filter) load(ctx context.Context) error {
	if f.loaded {
		return nil
	}

	keywords, err := prefstore.LoadStrings(ctx, f.store, StorageKey)
	if err != nil {
		return fmt.Errorf("blocklist.Filter.load: %w", err)
	}

	var clean []string
	for _, k := range keywords {
		if k = stringutil.NormalizeKeyword(k); k != "" && !contains(clean, k) {
			clean = append(clean, k)
		}
	}
	if clean == nil {
		clean = []string{}
	}

	f.keywords = clean
	f.loaded = true

	return nil
}

func (f *Filter) save(ctx context.Context, keywords []string) error {
	if err := prefstore.SaveStrings(ctx, f.store, StorageKey, keywords); err != nil {
		return err
	}

	f.keywords = keywords

	return nil
}

func contains(keywords []string, keyword string) bool {
	for _, k := range keywords {
		if k == keyword {
			return true
		}
	}

	return false
}

// Add blocks keyword. Keywords are stored trimmed and lowercased; empty and
// already present keywords are ignored.
func (f *Filter) Add(ctx context.Context, keyword string) error {
	keyword = stringutil.NormalizeKeyword(keyword)
	if keyword == "" {
		return nil
	}

	f.m.Lock()
	defer f.m.Unlock()

	if err := f.load(ctx); err != nil {
		return fmt.Errorf("blocklist.Filter.Add: %w", err)
	}

	if contains(f.keywords, keyword) {
		return nil
	}

	keywords := make([]string, len(f.keywords), len(f.keywords)+1)
	copy(keywords, f.keywords)

	if err := f.save(ctx, append(keywords, keyword)); err != nil {
		return fmt.Errorf("blocklist.Filter.Add: %w", err)
	}

	return nil
}

func (f *Filter) Remove(ctx context.Context, keyword string) error {
	keyword = stringutil.NormalizeKeyword(keyword)

	f.m.Lock()
	defer f.m.Unlock()

	if err := f.load(ctx); err != nil {
		return fmt.Errorf("blocklist.Filter.Remove: %w", err)
	}

	if !contains(f.keywords, keyword) {
		return nil
	}

	keywords := make([]string, 0, len(f.keywords))
	for _, k := range f.keywords {
		if k != keyword {
			keywords = append(keywords, k)
		}
	}

	if err := f.save(ctx, keywords); err != nil {
		return fmt.Errorf("blocklist.Filter.Remove: %w", err)
	}

	return nil
}

// IsBlocked reports whether text contains any blocked keyword, ignoring case.
func (f *Filter) IsBlocked(text string) bool {
	if text == "" {
		return false
	}

	f.m.RLock()
	defer f.m.RUnlock()

	if !f.loaded {
		return false
	}

	for _, k := range f.keywords {
		if stringutil.ContainsFold(text, k) {
			return true
		}
	}

	return false
}

func (f *Filter) IsVideoBlocked(v models.Video) bool {
	return f.IsBlocked(v.Title) || f.IsBlocked(v.ChannelTitle)
}

// Keywords returns the blocked keywords in the order they were added.
func (f *Filter) Keywords() []string {
	f.m.RLock()
	defer f.m.RUnlock()

	a := make([]string, len(f.keywords))
	copy(a, f.keywords)

	return a
}
