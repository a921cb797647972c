package feed

import (
	"fknsrs.biz/p/ytbrowse/models"
)

// LoadMore appends the videos from page that aren't already in existing. The
// first occurrence of an ID wins. existing is never modified.
func LoadMore(existing, page []models.Video) []models.Video {
	out := make([]models.Video, len(existing), len(existing)+len(page))
	copy(out, existing)

	seen := make(map[string]bool, len(existing)+len(page))
	for _, v := range existing {
		seen[v.ID] = true
	}

	for _, v := range page {
		if seen[v.ID] {
			continue
		}

		seen[v.ID] = true
		out = append(out, v)
	}

	return out
}
