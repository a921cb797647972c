package models

// SearchPage is one page of search results. An empty NextPageToken means there
// are no further pages.
type SearchPage struct {
	Videos        []Video `json:"videos"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

func (p SearchPage) HasMore() bool {
	return p.NextPageToken != ""
}
