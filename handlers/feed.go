package handlers

import (
	"net/http"
	"strings"

	"fknsrs.biz/p/ytbrowse/internal/ctxconfig"
	"fknsrs.biz/p/ytbrowse/internal/ctxfeed"
	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
	"fknsrs.biz/p/ytbrowse/internal/feed"
	"fknsrs.biz/p/ytbrowse/internal/httputil"
)

func writeFeedState(rw http.ResponseWriter, r *http.Request, st feed.State) {
	httputil.WriteJSON(rw, r, http.StatusOK, pageView{
		Query:         st.Query,
		Videos:        makeVideoViews(r.Context(), st.Videos),
		NextPageToken: st.NextPageToken,
	})
}

// Feed starts the feed over for a new query, or refreshes the home feed when
// no query is given.
func Feed(rw http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	rememberQuery(r, q)

	s := ctxfeed.GetSession(r.Context())

	t := s.Start(ctxconfig.QueryOrDefault(r.Context(), q))
	if !s.Run(r.Context(), ctxfeed.GetAggregator(r.Context()), t) {
		ctxlogger.GetLogger(r.Context()).WithField("feed.seq", t.Seq).Debug("discarded superseded feed page")
	}

	writeFeedState(rw, r, s.Snapshot())
}

func FeedMore(rw http.ResponseWriter, r *http.Request) {
	s := ctxfeed.GetSession(r.Context())

	if t, ok := s.Next(); ok {
		if !s.Run(r.Context(), ctxfeed.GetAggregator(r.Context()), t) {
			ctxlogger.GetLogger(r.Context()).WithField("feed.seq", t.Seq).Debug("discarded superseded feed page")
		}
	}

	writeFeedState(rw, r, s.Snapshot())
}

func FeedCurrent(rw http.ResponseWriter, r *http.Request) {
	writeFeedState(rw, r, ctxfeed.GetSession(r.Context()).Snapshot())
}
