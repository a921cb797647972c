package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Jeffail/gabs/v2"
	"github.com/stretchr/testify/assert"

	"fknsrs.biz/p/ytbrowse/internal/ytapi"
	"fknsrs.biz/p/ytbrowse/models"
)

type call struct {
	endpoint string
	params   map[string]string
}

type fakeFetcher struct {
	m         sync.Mutex
	calls     []call
	responses map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, endpoint string, params map[string]string) *gabs.Container {
	f.m.Lock()
	defer f.m.Unlock()

	f.calls = append(f.calls, call{endpoint, params})

	body, ok := f.responses[endpoint]
	if !ok {
		return nil
	}

	j, err := gabs.ParseJSON([]byte(body))
	if err != nil {
		panic(err)
	}

	return j
}

func (f *fakeFetcher) callsTo(endpoint string) []call {
	f.m.Lock()
	defer f.m.Unlock()

	var a []call
	for _, c := range f.calls {
		if c.endpoint == endpoint {
			a = append(a, c)
		}
	}

	return a
}

func searchItem(id, channelID string) string {
	return fmt.Sprintf(`{"id":{"videoId":%q},"snippet":{"title":"title %s","channelId":%q,"channelTitle":"channel %s","publishedAt":"2024-05-01T00:00:00Z","thumbnails":{"high":{"url":"https://img/%s.jpg"}}}}`, id, id, channelID, channelID, id)
}

func videoItem(id, duration, views string) string {
	return fmt.Sprintf(`{"id":%q,"contentDetails":{"duration":%q},"statistics":{"viewCount":%q,"likeCount":"7"}}`, id, duration, views)
}

func listing(items ...string) string {
	return `{"items":[` + strings.Join(items, ",") + `]}`
}

func TestSearchJoinsBatches(t *testing.T) {
	a := assert.New(t)

	f := &fakeFetcher{responses: map[string]string{
		ytapi.EndpointSearch: `{"nextPageToken":"NEXT","items":[` +
			searchItem("v1", "c1") + `,` +
			`{"id":{"kind":"youtube#channel","channelId":"c9"},"snippet":{}},` +
			searchItem("v2", "c1") + `,` +
			searchItem("v3", "c2") + `]}`,
		ytapi.EndpointVideos:   listing(videoItem("v1", "PT1M", "10"), videoItem("v3", "PT1H", "30")),
		ytapi.EndpointChannels: `{"items":[{"id":"c1","snippet":{"thumbnails":{"default":{"url":"https://img/c1.jpg"}}}}]}`,
	}}

	page := NewAggregator(f).Search(context.Background(), "golang", "")

	a.Equal("NEXT", page.NextPageToken)
	if a.Len(page.Videos, 3) {
		a.Equal("v1", page.Videos[0].ID)
		a.Equal(60, page.Videos[0].DurationSeconds)
		a.Equal("10", page.Videos[0].ViewCount)
		a.Equal("https://img/c1.jpg", page.Videos[0].ChannelThumbnail)

		a.Equal("v2", page.Videos[1].ID)
		a.Equal("", page.Videos[1].Duration)
		a.Equal(0, page.Videos[1].DurationSeconds)
		a.Equal("https://img/c1.jpg", page.Videos[1].ChannelThumbnail)

		a.Equal("v3", page.Videos[2].ID)
		a.Equal(3600, page.Videos[2].DurationSeconds)
		a.Equal("", page.Videos[2].ChannelThumbnail)
	}

	searches := f.callsTo(ytapi.EndpointSearch)
	if a.Len(searches, 1) {
		a.Equal("golang", searches[0].params["q"])
		a.Equal("video", searches[0].params["type"])
		a.Equal("20", searches[0].params["maxResults"])
		a.Equal("snippet", searches[0].params["part"])
	}

	if videos := f.callsTo(ytapi.EndpointVideos); a.Len(videos, 1) {
		a.Equal("v1,v2,v3", videos[0].params["id"])
		a.Equal("contentDetails,statistics", videos[0].params["part"])
	}

	if channels := f.callsTo(ytapi.EndpointChannels); a.Len(channels, 1) {
		a.Equal("c1,c2", channels[0].params["id"])
	}
}

func TestSearchPassesPageToken(t *testing.T) {
	a := assert.New(t)

	f := &fakeFetcher{responses: map[string]string{}}
	NewAggregator(f).Search(context.Background(), "q", "TOKEN")

	if searches := f.callsTo(ytapi.EndpointSearch); a.Len(searches, 1) {
		a.Equal("TOKEN", searches[0].params["pageToken"])
	}
}

func TestSearchEmptyResults(t *testing.T) {
	for _, tc := range []struct {
		name  string
		body  *string
		token string
	}{
		{"request failed", nil, ""},
		{"no items field", ptr(`{"nextPageToken":"X"}`), ""},
		{"zero items", ptr(`{"nextPageToken":"X","items":[]}`), "X"},
		{"no video ids", ptr(`{"nextPageToken":"X","items":[{"id":{"channelId":"c"}}]}`), "X"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := assert.New(t)

			f := &fakeFetcher{responses: map[string]string{}}
			if tc.body != nil {
				f.responses[ytapi.EndpointSearch] = *tc.body
			}

			page := NewAggregator(f).Search(context.Background(), "q", "")

			a.NotNil(page.Videos)
			a.Len(page.Videos, 0)
			a.Equal(tc.token, page.NextPageToken)
			a.Len(f.callsTo(ytapi.EndpointVideos), 0)
			a.Len(f.callsTo(ytapi.EndpointChannels), 0)
		})
	}
}

func TestSearchSkipsChannelBatchWithoutChannelIDs(t *testing.T) {
	a := assert.New(t)

	f := &fakeFetcher{responses: map[string]string{
		ytapi.EndpointSearch: listing(searchItem("v1", "")),
		ytapi.EndpointVideos: listing(videoItem("v1", "PT5M", "1")),
	}}

	page := NewAggregator(f).Search(context.Background(), "q", "")

	a.Len(page.Videos, 1)
	a.Len(f.callsTo(ytapi.EndpointVideos), 1)
	a.Len(f.callsTo(ytapi.EndpointChannels), 0)
}

func TestSearchSurvivesFailedBatches(t *testing.T) {
	a := assert.New(t)

	f := &fakeFetcher{responses: map[string]string{
		ytapi.EndpointSearch: listing(searchItem("v1", "c1")),
	}}

	page := NewAggregator(f).Search(context.Background(), "q", "")

	if a.Len(page.Videos, 1) {
		a.Equal("v1", page.Videos[0].ID)
		a.Equal("title v1", page.Videos[0].Title)
		a.Equal(0, page.Videos[0].DurationSeconds)
		a.Equal("", page.Videos[0].ChannelThumbnail)
	}
}

func TestRelated(t *testing.T) {
	a := assert.New(t)

	var items, details []string
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("r%02d", i)
		items = append(items, searchItem(id, "c"))
		details = append(details, videoItem(id, "PT2S", "3"))
	}
	items = append([]string{`{"id":{"kind":"youtube#playlist"}}`}, items...)

	f := &fakeFetcher{responses: map[string]string{
		ytapi.EndpointSearch: listing(items...),
		ytapi.EndpointVideos: listing(details...),
	}}

	videos := NewAggregator(f).Related(context.Background(), "orig")

	if a.Len(videos, 10) {
		a.Equal("r00", videos[0].ID)
		a.Equal("r09", videos[9].ID)
		a.Equal(2, videos[0].DurationSeconds)
		a.Equal("3", videos[0].ViewCount)
		a.Equal("", videos[0].LikeCount)
		a.Equal("", videos[0].ChannelThumbnail)
	}

	if searches := f.callsTo(ytapi.EndpointSearch); a.Len(searches, 1) {
		a.Equal("orig", searches[0].params["relatedToVideoId"])
		a.Equal("20", searches[0].params["maxResults"])
	}
	a.Len(f.callsTo(ytapi.EndpointChannels), 0)
}

func TestRelatedWithoutDetails(t *testing.T) {
	a := assert.New(t)

	f := &fakeFetcher{responses: map[string]string{
		ytapi.EndpointSearch: listing(searchItem("v1", "c1")),
	}}

	videos := NewAggregator(f).Related(context.Background(), "orig")
	a.NotNil(videos)
	a.Len(videos, 0)
}

func TestVideo(t *testing.T) {
	a := assert.New(t)

	f := &fakeFetcher{responses: map[string]string{
		ytapi.EndpointVideos:   `{"items":[{"id":"v1","snippet":{"title":"T","channelId":"c1"},"contentDetails":{"duration":"PT10S"},"statistics":{"viewCount":"9"}}]}`,
		ytapi.EndpointChannels: `{"items":[{"id":"c1","snippet":{"thumbnails":{"default":{"url":"https://img/c1.jpg"}}},"statistics":{"subscriberCount":"42"}}]}`,
	}}

	v, ok := NewAggregator(f).Video(context.Background(), "v1")
	if a.True(ok) {
		a.Equal("v1", v.ID)
		a.Equal("T", v.Title)
		a.Equal(10, v.DurationSeconds)
		a.Equal("https://img/c1.jpg", v.ChannelThumbnail)
		a.Equal("42", v.SubscriberCount)
	}

	if channels := f.callsTo(ytapi.EndpointChannels); a.Len(channels, 1) {
		a.Equal("snippet,statistics", channels[0].params["part"])
	}
}

func TestVideoNotFound(t *testing.T) {
	a := assert.New(t)

	f := &fakeFetcher{responses: map[string]string{ytapi.EndpointVideos: `{"items":[]}`}}

	v, ok := NewAggregator(f).Video(context.Background(), "nope")
	a.False(ok)
	a.Nil(v)
	a.Len(f.callsTo(ytapi.EndpointChannels), 0)
}

func ptr(s string) *string { return &s }

func ids(videos []models.Video) []string {
	a := make([]string, len(videos))
	for i, v := range videos {
		a[i] = v.ID
	}
	return a
}

func vids(idList ...string) []models.Video {
	a := make([]models.Video, len(idList))
	for i, id := range idList {
		a[i] = models.Video{ID: id, Title: "title " + id}
	}
	return a
}
