package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fknsrs.biz/p/ytbrowse/internal/prefstore"
)

func TestAdd(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	h := New(prefstore.NewMemory())
	a.NoError(h.Load(ctx))

	a.NoError(h.Add(ctx, "  golang  "))
	a.NoError(h.Add(ctx, "rust"))
	a.NoError(h.Add(ctx, ""))
	a.NoError(h.Add(ctx, "   "))
	a.Equal([]string{"rust", "golang"}, h.List())

	a.NoError(h.Add(ctx, "golang"))
	a.Equal([]string{"golang", "rust"}, h.List())

	a.NoError(h.Add(ctx, "Golang"))
	a.Equal([]string{"Golang", "golang", "rust"}, h.List())
}

func TestAddCapsEntries(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	h := New(prefstore.NewMemory())
	for _, q := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		a.NoError(h.Add(ctx, q))
	}

	a.Equal([]string{"7", "6", "5", "4", "3"}, h.List())

	a.NoError(h.Add(ctx, "4"))
	a.Equal([]string{"4", "7", "6", "5", "3"}, h.List())
}

func TestPersistenceAndClear(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	store := prefstore.NewMemory()

	h := New(store)
	a.NoError(h.Add(ctx, "a"))
	a.NoError(h.Add(ctx, "b"))

	other := New(store)
	a.NoError(other.Load(ctx))
	a.Equal([]string{"b", "a"}, other.List())

	a.NoError(h.Clear(ctx))
	a.Equal([]string{}, h.List())

	stored, err := prefstore.LoadStrings(ctx, store, StorageKey)
	a.NoError(err)
	a.Equal([]string{}, stored)
}

func TestLoadTruncatesOversizedHistory(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	store := prefstore.NewMemory()
	a.NoError(prefstore.SaveStrings(ctx, store, StorageKey, []string{"1", "2", "3", "4", "5", "6"}))

	h := New(store)
	a.NoError(h.Load(ctx))
	a.Equal([]string{"1", "2", "3", "4", "5"}, h.List())
}

func TestLoadNormalizesStoredEntries(t *testing.T) {
	for _, tc := range []struct {
		name   string
		stored []string
		out    []string
	}{
		{"duplicates", []string{"a", "a", "b"}, []string{"a", "b"}},
		{"untrimmed", []string{" b", "b ", "a"}, []string{"b", "a"}},
		{"blank", []string{"", "  ", "a"}, []string{"a"}},
		{"cap after dedupe", []string{"1", "1", "2", "3", "4", "5", "6"}, []string{"1", "2", "3", "4", "5"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := assert.New(t)
			ctx := context.Background()

			store := prefstore.NewMemory()
			a.NoError(prefstore.SaveStrings(ctx, store, StorageKey, tc.stored))

			h := New(store)
			a.NoError(h.Load(ctx))
			a.Equal(tc.out, h.List())

			a.NoError(h.Add(ctx, "new"))
			list := h.List()
			a.Equal("new", list[0])
			a.LessOrEqual(len(list), MaxEntries)
		})
	}
}
