package ctxfeed

import (
	"context"
	"net/http"

	"fknsrs.biz/p/ytbrowse/internal/feed"
)

// context registration

var aggregatorKey int

func WithAggregator(ctx context.Context, a *feed.Aggregator) context.Context {
	return context.WithValue(ctx, &aggregatorKey, a)
}

func GetAggregator(ctx context.Context) *feed.Aggregator {
	if v := ctx.Value(&aggregatorKey); v != nil {
		return v.(*feed.Aggregator)
	}

	return nil
}

var sessionKey int

func WithSession(ctx context.Context, s *feed.Session) context.Context {
	return context.WithValue(ctx, &sessionKey, s)
}

func GetSession(ctx context.Context) *feed.Session {
	if v := ctx.Value(&sessionKey); v != nil {
		return v.(*feed.Session)
	}

	return nil
}

// middleware

func Register(a *feed.Aggregator, s *feed.Session) func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	return func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		next(rw, r.WithContext(WithSession(WithAggregator(r.Context(), a), s)))
	}
}
