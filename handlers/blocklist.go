package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/monoculum/formam"

	"fknsrs.biz/p/ytbrowse/internal/ctxprefs"
	"fknsrs.biz/p/ytbrowse/internal/httputil"
	"fknsrs.biz/p/ytbrowse/internal/stringutil"
)

type keywordsView struct {
	Keywords []string `json:"keywords"`
}

func Blocklist(rw http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(rw, r, http.StatusOK, keywordsView{Keywords: ctxprefs.GetBlocklist(r.Context()).Keywords()})
}

func BlocklistAdd(rw http.ResponseWriter, r *http.Request) {
	var input struct {
		Keyword string `formam:"keyword" json:"keyword"`
	}

	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("content-type")); mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httputil.BadRequest(rw, r, "Could not decode request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httputil.BadRequest(rw, r, "Could not parse form")
			return
		}

		if err := formam.Decode(r.PostForm, &input); err != nil {
			httputil.BadRequest(rw, r, "Could not decode form")
			return
		}
	}

	if stringutil.NormalizeKeyword(input.Keyword) == "" {
		httputil.BadRequest(rw, r, "Keyword is required")
		return
	}

	f := ctxprefs.GetBlocklist(r.Context())

	if err := f.Add(r.Context(), input.Keyword); err != nil {
		httputil.InternalError(rw, r, err)
		return
	}

	httputil.WriteJSON(rw, r, http.StatusOK, keywordsView{Keywords: f.Keywords()})
}

// BlocklistRemove takes the keyword from the query string, since keywords may
// contain slashes.
func BlocklistRemove(rw http.ResponseWriter, r *http.Request) {
	keyword := stringutil.NormalizeKeyword(r.URL.Query().Get("keyword"))
	if keyword == "" {
		httputil.BadRequest(rw, r, "Keyword is required")
		return
	}

	f := ctxprefs.GetBlocklist(r.Context())

	if err := f.Remove(r.Context(), keyword); err != nil {
		httputil.InternalError(rw, r, err)
		return
	}

	httputil.WriteJSON(rw, r, http.StatusOK, keywordsView{Keywords: f.Keywords()})
}
