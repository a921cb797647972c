package handlers

import (
	"net/http"
	"strings"

	"fknsrs.biz/p/ytbrowse/internal/ctxconfig"
	"fknsrs.biz/p/ytbrowse/internal/ctxfeed"
	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
	"fknsrs.biz/p/ytbrowse/internal/ctxprefs"
	"fknsrs.biz/p/ytbrowse/internal/httputil"
)

// rememberQuery adds a query the user typed to their search history. Failing
// to save history doesn't fail the search.
func rememberQuery(r *http.Request, q string) {
	h := ctxprefs.GetHistory(r.Context())
	if h == nil || q == "" {
		return
	}

	if err := h.Add(r.Context(), q); err != nil {
		ctxlogger.GetLogger(r.Context()).WithError(err).Warn("could not save search history")
	}
}

func Search(rw http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	pageToken := r.URL.Query().Get("pageToken")

	if pageToken == "" {
		rememberQuery(r, q)
	}

	q = ctxconfig.QueryOrDefault(r.Context(), q)

	page := ctxfeed.GetAggregator(r.Context()).Search(r.Context(), q, pageToken)

	httputil.WriteJSON(rw, r, http.StatusOK, pageView{
		Query:         q,
		Videos:        makeVideoViews(r.Context(), page.Videos),
		NextPageToken: page.NextPageToken,
	})
}
