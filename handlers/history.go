package handlers

import (
	"net/http"

	"fknsrs.biz/p/ytbrowse/internal/ctxprefs"
	"fknsrs.biz/p/ytbrowse/internal/httputil"
)

type historyView struct {
	Queries []string `json:"queries"`
}

func History(rw http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(rw, r, http.StatusOK, historyView{Queries: ctxprefs.GetHistory(r.Context()).List()})
}

func HistoryClear(rw http.ResponseWriter, r *http.Request) {
	h := ctxprefs.GetHistory(r.Context())

	if err := h.Clear(r.Context()); err != nil {
		httputil.InternalError(rw, r, err)
		return
	}

	httputil.WriteJSON(rw, r, http.StatusOK, historyView{Queries: h.List()})
}
