// Package ytutil turns user-pasted links into bare video and channel IDs.
package ytutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	videoIDLength   = 11
	channelIDLength = 24
)

var idPattern = regexp.MustCompile(`^[-_a-zA-Z0-9]+$`)

func isWatchHost(host string) bool {
	switch strings.ToLower(host) {
	case "youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com":
		return true
	}

	return false
}

func checkID(id string, length int) (string, error) {
	if len(id) != length {
		return "", fmt.Errorf("invalid id %q; length should be %d", id, length)
	}

	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("invalid id %q; unexpected characters", id)
	}

	return id, nil
}

func ExtractVideoID(urlOrID string) (string, error) {
	urlOrID = strings.TrimSpace(urlOrID)

	if len(urlOrID) == videoIDLength {
		id, err := checkID(urlOrID, videoIDLength)
		if err != nil {
			return "", fmt.Errorf("ytutil.ExtractVideoID: %w", err)
		}

		return id, nil
	}

	parsed, err := url.Parse(urlOrID)
	if err != nil {
		return "", fmt.Errorf("ytutil.ExtractVideoID: %w", err)
	}

	var id string

	switch {
	case isWatchHost(parsed.Host) && parsed.Path == "/watch":
		id = parsed.Query().Get("v")
		if id == "" {
			return "", fmt.Errorf("ytutil.ExtractVideoID: no v query parameter in url")
		}
	case isWatchHost(parsed.Host) && (strings.HasPrefix(parsed.Path, "/embed/") || strings.HasPrefix(parsed.Path, "/shorts/") || strings.HasPrefix(parsed.Path, "/live/")):
		parts := strings.Split(parsed.Path, "/")
		id = parts[2]
	case strings.ToLower(parsed.Host) == "youtu.be":
		id = strings.TrimPrefix(parsed.Path, "/")
		if id == "" {
			return "", fmt.Errorf("ytutil.ExtractVideoID: no path content found in youtu.be url")
		}
	default:
		return "", fmt.Errorf("ytutil.ExtractVideoID: invalid url or id; could not find a known pattern")
	}

	if id, err = checkID(id, videoIDLength); err != nil {
		return "", fmt.Errorf("ytutil.ExtractVideoID: %w", err)
	}

	return id, nil
}

func ExtractChannelID(urlOrID string) (string, error) {
	urlOrID = strings.TrimSpace(urlOrID)

	if len(urlOrID) == channelIDLength {
		id, err := checkID(urlOrID, channelIDLength)
		if err != nil {
			return "", fmt.Errorf("ytutil.ExtractChannelID: %w", err)
		}

		return id, nil
	}

	parsed, err := url.Parse(urlOrID)
	if err != nil || !isWatchHost(parsed.Host) {
		return "", fmt.Errorf("ytutil.ExtractChannelID: invalid url or id; could not find a known pattern")
	}

	if parsed.Path != "/channel" && !strings.HasPrefix(parsed.Path, "/channel/") {
		return "", fmt.Errorf("ytutil.ExtractChannelID: url is not a channel url")
	}

	id := parsed.Query().Get("channel_id")
	if id == "" {
		if parts := strings.Split(parsed.Path, "/"); len(parts) >= 3 {
			id = parts[2]
		}
	}

	if id, err = checkID(id, channelIDLength); err != nil {
		return "", fmt.Errorf("ytutil.ExtractChannelID: %w", err)
	}

	return id, nil
}
