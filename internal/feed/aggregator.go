// Package feed assembles pages of videos from search results and the batch
// detail calls needed to fill them in.
package feed

import (
	"context"
	"strconv"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"golang.org/x/sync/errgroup"

	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
	"fknsrs.biz/p/ytbrowse/internal/ytapi"
	"fknsrs.biz/p/ytbrowse/models"
)

const (
	searchPageSize = 20
	relatedLimit   = 10
)

type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params map[string]string) *gabs.Container
}

type Aggregator struct {
	fetcher Fetcher
}

func NewAggregator(fetcher Fetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

func emptyPage(nextPageToken string) models.SearchPage {
	return models.SearchPage{Videos: []models.Video{}, NextPageToken: nextPageToken}
}

func videoItems(items []*gabs.Container) []*gabs.Container {
	var a []*gabs.Container
	for _, item := range items {
		if ytapi.SearchItemID(item) != "" {
			a = append(a, item)
		}
	}

	return a
}

func (a *Aggregator) search(ctx context.Context, params map[string]string) *gabs.Container {
	params["part"] = "snippet"
	params["type"] = "video"
	params["maxResults"] = strconv.Itoa(searchPageSize)

	return a.fetcher.Fetch(ctx, ytapi.EndpointSearch, params)
}

// Search returns one page of results for query, starting at pageToken if it's
// not empty.
func (a *Aggregator) Search(ctx context.Context, query, pageToken string) models.SearchPage {
	l := ctxlogger.GetLogger(ctx).WithField("feed.query", query)

	res := a.search(ctx, map[string]string{"q": query, "pageToken": pageToken})
	if res == nil || !res.Exists("items") {
		return emptyPage("")
	}

	nextPageToken := ytapi.NextPageToken(res)

	items := videoItems(ytapi.Items(res))
	if len(items) == 0 {
		return emptyPage(nextPageToken)
	}

	var videoIDs, channelIDs []string
	seenChannels := make(map[string]bool)
	for _, item := range items {
		videoIDs = append(videoIDs, ytapi.SearchItemID(item))

		if channelID := ytapi.SearchItemChannelID(item); channelID != "" && !seenChannels[channelID] {
			seenChannels[channelID] = true
			channelIDs = append(channelIDs, channelID)
		}
	}

	var videosRes, channelsRes *gabs.Container

	// Fetch never errors; a failed batch shows up as a nil container and the
	// page is built without that batch's fields.
	var g errgroup.Group
	g.Go(func() error {
		videosRes = a.fetcher.Fetch(ctx, ytapi.EndpointVideos, map[string]string{
			"part": "contentDetails,statistics",
			"id":   strings.Join(videoIDs, ","),
		})
		return nil
	})
	if len(channelIDs) > 0 {
		g.Go(func() error {
			channelsRes = a.fetcher.Fetch(ctx, ytapi.EndpointChannels, map[string]string{
				"part": "snippet",
				"id":   strings.Join(channelIDs, ","),
			})
			return nil
		})
	}
	_ = g.Wait()

	details := make(map[string]*gabs.Container)
	for _, item := range ytapi.Items(videosRes) {
		details[ytapi.ItemID(item)] = item
	}

	channelThumbnails := make(map[string]string)
	for _, item := range ytapi.Items(channelsRes) {
		channelThumbnails[ytapi.ItemID(item)] = ytapi.ChannelThumbnail(item)
	}

	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		v := ytapi.VideoFromSearchItem(item, details[ytapi.SearchItemID(item)], "")
		v.ChannelThumbnail = channelThumbnails[v.ChannelID]
		videos = append(videos, v)
	}

	l.WithField("feed.count", len(videos)).Debug("assembled search page")

	return models.SearchPage{Videos: videos, NextPageToken: nextPageToken}
}

// Related returns up to ten videos related to videoID. They carry duration and
// view count but no channel thumbnail.
func (a *Aggregator) Related(ctx context.Context, videoID string) []models.Video {
	items := videoItems(ytapi.Items(a.search(ctx, map[string]string{"relatedToVideoId": videoID})))
	if len(items) == 0 {
		return []models.Video{}
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = ytapi.SearchItemID(item)
	}

	videosRes := a.fetcher.Fetch(ctx, ytapi.EndpointVideos, map[string]string{
		"part": "contentDetails,statistics",
		"id":   strings.Join(ids, ","),
	})
	if videosRes == nil {
		return []models.Video{}
	}

	details := make(map[string]*gabs.Container)
	for _, item := range ytapi.Items(videosRes) {
		details[ytapi.ItemID(item)] = item
	}

	videos := make([]models.Video, 0, relatedLimit)
	for _, item := range items {
		if len(videos) == relatedLimit {
			break
		}

		v := ytapi.VideoFromSearchItem(item, details[ytapi.SearchItemID(item)], "")
		v.LikeCount = ""
		videos = append(videos, v)
	}

	return videos
}

// Video looks up a single video along with its channel's thumbnail and
// subscriber count.
func (a *Aggregator) Video(ctx context.Context, id string) (*models.Video, bool) {
	items := ytapi.Items(a.fetcher.Fetch(ctx, ytapi.EndpointVideos, map[string]string{
		"part": "snippet,contentDetails,statistics",
		"id":   id,
	}))
	if len(items) == 0 {
		return nil, false
	}

	v := ytapi.VideoFromVideoItem(items[0])

	if v.ChannelID != "" {
		if channels := ytapi.Items(a.fetcher.Fetch(ctx, ytapi.EndpointChannels, map[string]string{
			"part": "snippet,statistics",
			"id":   v.ChannelID,
		})); len(channels) > 0 {
			v.ChannelThumbnail = ytapi.ChannelThumbnail(channels[0])
			v.SubscriberCount = ytapi.ChannelSubscriberCount(channels[0])
		}
	}

	return &v, true
}
