// Package prefstore holds small per-device preference values, such as search
// history and the keyword blocklist, behind a key-value interface.
package prefstore

import (
	"context"
	"encoding/json"
	"fmt"

	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
)

type Store interface {
	// Get returns the stored value and whether the key existed.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// LoadStrings reads a JSON string array. Absent or corrupt entries are treated
// as empty; a corrupt entry is logged but not reported as an error.
func LoadStrings(ctx context.Context, s Store, key string) ([]string, error) {
	d, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("prefstore.LoadStrings: %w", err)
	}

	if !ok || len(d) == 0 {
		return []string{}, nil
	}

	var a []string
	if err := json.Unmarshal(d, &a); err != nil {
		ctxlogger.GetLogger(ctx).WithError(err).WithField("prefstore.key", key).Warn("ignoring corrupt preference entry")
		return []string{}, nil
	}

	if a == nil {
		a = []string{}
	}

	return a, nil
}

func SaveStrings(ctx context.Context, s Store, key string, a []string) error {
	if a == nil {
		a = []string{}
	}

	d, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("prefstore.SaveStrings: %w", err)
	}

	if err := s.Put(ctx, key, d); err != nil {
		return fmt.Errorf("prefstore.SaveStrings: %w", err)
	}

	return nil
}
