package ytapi

import (
	"strconv"
	"time"

	"github.com/Jeffail/gabs/v2"

	"fknsrs.biz/p/ytbrowse/models"
)

func str(c *gabs.Container, path string) string {
	if c == nil {
		return ""
	}

	switch v := c.Path(path).Data().(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func timestamp(c *gabs.Container, path string) time.Time {
	t, err := time.Parse(time.RFC3339, str(c, path))
	if err != nil {
		return time.Time{}
	}

	return t
}

// Items returns the entries of a listing response's items array.
func Items(c *gabs.Container) []*gabs.Container {
	if c == nil {
		return nil
	}

	return c.Path("items").Children()
}

func NextPageToken(c *gabs.Container) string {
	return str(c, "nextPageToken")
}

// SearchItemID is the video ID of a search result, or "" for results that
// aren't videos.
func SearchItemID(item *gabs.Container) string {
	return str(item, "id.videoId")
}

// ItemID is the ID of a videos or channels listing entry.
func ItemID(item *gabs.Container) string {
	return str(item, "id")
}

func SearchItemChannelID(item *gabs.Container) string {
	return str(item, "snippet.channelId")
}

func ChannelThumbnail(item *gabs.Container) string {
	return str(item, "snippet.thumbnails.default.url")
}

func ChannelSubscriberCount(item *gabs.Container) string {
	return str(item, "statistics.subscriberCount")
}

func applySnippet(v *models.Video, item *gabs.Container) {
	v.Title = str(item, "snippet.title")
	v.Description = str(item, "snippet.description")
	v.Thumbnail = str(item, "snippet.thumbnails.high.url")
	v.PublishedAt = timestamp(item, "snippet.publishedAt")
	v.ChannelID = str(item, "snippet.channelId")
	v.ChannelTitle = str(item, "snippet.channelTitle")
	v.LiveBroadcastContent = str(item, "snippet.liveBroadcastContent")
}

func applyDetails(v *models.Video, details *gabs.Container) {
	if details == nil {
		return
	}

	v.Duration = str(details, "contentDetails.duration")
	v.DurationSeconds = ParseDuration(v.Duration)
	v.ViewCount = str(details, "statistics.viewCount")
	v.LikeCount = str(details, "statistics.likeCount")
}

// VideoFromSearchItem builds a video from a search result, taking duration and
// statistics from the matching videos entry when there is one.
func VideoFromSearchItem(item, details *gabs.Container, channelThumbnail string) models.Video {
	v := models.Video{ID: SearchItemID(item)}

	applySnippet(&v, item)
	applyDetails(&v, details)

	v.ChannelThumbnail = channelThumbnail

	return v
}

// VideoFromVideoItem builds a video from a videos listing entry requested with
// the snippet part.
func VideoFromVideoItem(item *gabs.Container) models.Video {
	v := models.Video{ID: ItemID(item)}

	applySnippet(&v, item)
	applyDetails(&v, item)

	return v
}
