package httputil

import (
	"encoding/json"
	"net/http"

	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
)

type errorBody struct {
	Error string `json:"error"`
}

func WriteJSON(rw http.ResponseWriter, r *http.Request, status int, v interface{}) {
	rw.Header().Set("content-type", "application/json; charset=utf-8")
	rw.WriteHeader(status)

	if err := json.NewEncoder(rw).Encode(v); err != nil {
		ctxlogger.GetLogger(r.Context()).WithError(err).Warn("could not write response body")
	}
}

func WriteError(rw http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(rw, r, status, errorBody{Error: message})
}

// InternalError logs err against the request and responds without exposing
// its details.
func InternalError(rw http.ResponseWriter, r *http.Request, err error) {
	ctxlogger.GetLogger(r.Context()).WithError(err).Error("request failed")
	WriteError(rw, r, http.StatusInternalServerError, "Internal server error")
}

func BadRequest(rw http.ResponseWriter, r *http.Request, message string) {
	WriteError(rw, r, http.StatusBadRequest, message)
}

func NotFound(rw http.ResponseWriter, r *http.Request) {
	WriteError(rw, r, http.StatusNotFound, "Not found")
}
