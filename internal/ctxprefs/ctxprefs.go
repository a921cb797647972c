package ctxprefs

import (
	"context"
	"net/http"

	"fknsrs.biz/p/ytbrowse/internal/blocklist"
	"fknsrs.biz/p/ytbrowse/internal/history"
)

// context registration

var blocklistKey int

func WithBlocklist(ctx context.Context, f *blocklist.Filter) context.Context {
	return context.WithValue(ctx, &blocklistKey, f)
}

func GetBlocklist(ctx context.Context) *blocklist.Filter {
	if v := ctx.Value(&blocklistKey); v != nil {
		return v.(*blocklist.Filter)
	}

	return nil
}

var historyKey int

func WithHistory(ctx context.Context, h *history.History) context.Context {
	return context.WithValue(ctx, &historyKey, h)
}

func GetHistory(ctx context.Context) *history.History {
	if v := ctx.Value(&historyKey); v != nil {
		return v.(*history.History)
	}

	return nil
}

// middleware

func Register(f *blocklist.Filter, h *history.History) func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	return func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		next(rw, r.WithContext(WithHistory(WithBlocklist(r.Context(), f), h)))
	}
}
