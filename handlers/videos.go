package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"fknsrs.biz/p/ytbrowse/internal/ctxfeed"
	"fknsrs.biz/p/ytbrowse/internal/httputil"
	"fknsrs.biz/p/ytbrowse/internal/ytutil"
)

func Video(rw http.ResponseWriter, r *http.Request) {
	id, err := ytutil.ExtractVideoID(mux.Vars(r)["id"])
	if err != nil {
		httputil.NotFound(rw, r)
		return
	}

	v, ok := ctxfeed.GetAggregator(r.Context()).Video(r.Context(), id)
	if !ok {
		httputil.NotFound(rw, r)
		return
	}

	httputil.WriteJSON(rw, r, http.StatusOK, makeVideoView(r.Context(), *v))
}

func VideoRelated(rw http.ResponseWriter, r *http.Request) {
	id, err := ytutil.ExtractVideoID(mux.Vars(r)["id"])
	if err != nil {
		httputil.NotFound(rw, r)
		return
	}

	videos := ctxfeed.GetAggregator(r.Context()).Related(r.Context(), id)

	httputil.WriteJSON(rw, r, http.StatusOK, map[string]interface{}{
		"videos": makeVideoViews(r.Context(), videos),
	})
}
