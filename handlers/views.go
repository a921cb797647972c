package handlers

import (
	"context"
	"net/http"

	"fknsrs.biz/p/ytbrowse/internal/ctxprefs"
	"fknsrs.biz/p/ytbrowse/internal/httputil"
	"fknsrs.biz/p/ytbrowse/models"
)

type videoView struct {
	models.Video
	Blocked bool `json:"blocked"`
}

type pageView struct {
	Query         string      `json:"query"`
	Videos        []videoView `json:"videos"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}

func makeVideoView(ctx context.Context, v models.Video) videoView {
	var blocked bool
	if f := ctxprefs.GetBlocklist(ctx); f != nil {
		blocked = f.IsVideoBlocked(v)
	}

	return videoView{Video: v, Blocked: blocked}
}

func makeVideoViews(ctx context.Context, videos []models.Video) []videoView {
	a := make([]videoView, len(videos))
	for i, v := range videos {
		a[i] = makeVideoView(ctx, v)
	}

	return a
}

func notFound(rw http.ResponseWriter, r *http.Request) {
	httputil.NotFound(rw, r)
}
