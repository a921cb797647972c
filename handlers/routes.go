package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func Router() *mux.Router {
	m := mux.NewRouter()

	m.Methods(http.MethodGet).Path("/healthz").HandlerFunc(Healthz)
	m.Methods(http.MethodGet).Path("/api/search").HandlerFunc(Search)
	m.Methods(http.MethodGet).Path("/api/feed").HandlerFunc(Feed)
	m.Methods(http.MethodGet).Path("/api/feed/more").HandlerFunc(FeedMore)
	m.Methods(http.MethodGet).Path("/api/feed/current").HandlerFunc(FeedCurrent)
	m.Methods(http.MethodGet).Path("/api/videos/{id}").HandlerFunc(Video)
	m.Methods(http.MethodGet).Path("/api/videos/{id}/related").HandlerFunc(VideoRelated)
	m.Methods(http.MethodGet).Path("/api/blocklist").HandlerFunc(Blocklist)
	m.Methods(http.MethodPost).Path("/api/blocklist").HandlerFunc(BlocklistAdd)
	m.Methods(http.MethodDelete).Path("/api/blocklist").HandlerFunc(BlocklistRemove)
	m.Methods(http.MethodGet).Path("/api/history").HandlerFunc(History)
	m.Methods(http.MethodDelete).Path("/api/history").HandlerFunc(HistoryClear)

	m.NotFoundHandler = http.HandlerFunc(notFound)

	return m
}

func Healthz(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("content-type", "text/plain; charset=utf-8")
	rw.WriteHeader(http.StatusOK)
	rw.Write([]byte("ok\n"))
}
