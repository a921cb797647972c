package models

import (
	"time"
)

type Video struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Thumbnail            string    `json:"thumbnail"`
	PublishedAt          time.Time `json:"publishedAt"`
	ChannelID            string    `json:"channelId,omitempty"`
	ChannelTitle         string    `json:"channelTitle"`
	ChannelThumbnail     string    `json:"channelThumbnail,omitempty"`
	Duration             string    `json:"duration,omitempty"`
	DurationSeconds      int       `json:"durationSeconds"`
	ViewCount            string    `json:"viewCount,omitempty"`
	LikeCount            string    `json:"likeCount,omitempty"`
	SubscriberCount      string    `json:"subscriberCount,omitempty"`
	LiveBroadcastContent string    `json:"liveBroadcastContent,omitempty"`
}

func (v Video) IsLive() bool {
	return v.LiveBroadcastContent == "live"
}
