package feed

import (
	"context"
	"sync"

	"fknsrs.biz/p/ytbrowse/models"
)

type Searcher interface {
	Search(ctx context.Context, query, pageToken string) models.SearchPage
}

// Ticket identifies one outstanding page request. Only the most recently
// issued ticket's response is accepted.
type Ticket struct {
	Seq       uint64
	Query     string
	PageToken string
}

type State struct {
	Query         string         `json:"query"`
	Videos        []models.Video `json:"videos"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// Session is an accumulated feed for one query. Starting a new query or asking
// for another page supersedes any request still in flight, so late responses
// can't overwrite newer state or append to the wrong list.
type Session struct {
	m      sync.Mutex
	seq    uint64
	query  string
	videos []models.Video
	token  string
}

func NewSession() *Session {
	return &Session{videos: []models.Video{}}
}

func (s *Session) Start(query string) Ticket {
	s.m.Lock()
	defer s.m.Unlock()

	s.seq++
	s.query = query
	s.videos = []models.Video{}
	s.token = ""

	return Ticket{Seq: s.seq, Query: query}
}

// Next issues a ticket for the following page. It returns false when the feed
// has no more pages.
func (s *Session) Next() (Ticket, bool) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.token == "" {
		return Ticket{}, false
	}

	s.seq++

	return Ticket{Seq: s.seq, Query: s.query, PageToken: s.token}, true
}

// Apply stores the response for t. It returns false and changes nothing if a
// newer ticket has been issued since.
func (s *Session) Apply(t Ticket, page models.SearchPage) bool {
	s.m.Lock()
	defer s.m.Unlock()

	if t.Seq != s.seq {
		return false
	}

	if t.PageToken == "" {
		s.videos = LoadMore(nil, page.Videos)
	} else {
		s.videos = LoadMore(s.videos, page.Videos)
	}

	s.token = page.NextPageToken

	return true
}

func (s *Session) Snapshot() State {
	s.m.Lock()
	defer s.m.Unlock()

	videos := make([]models.Video, len(s.videos))
	copy(videos, s.videos)

	return State{Query: s.query, Videos: videos, NextPageToken: s.token}
}

// Run fetches the page for t and applies it.
func (s *Session) Run(ctx context.Context, searcher Searcher, t Ticket) bool {
	return s.Apply(t, searcher.Search(ctx, t.Query, t.PageToken))
}
