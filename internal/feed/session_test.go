package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fknsrs.biz/p/ytbrowse/models"
)

func page(token string, idList ...string) models.SearchPage {
	return models.SearchPage{Videos: vids(idList...), NextPageToken: token}
}

func TestSessionPaging(t *testing.T) {
	a := assert.New(t)

	s := NewSession()

	_, ok := s.Next()
	a.False(ok)

	t1 := s.Start("cats")
	a.Equal("cats", t1.Query)
	a.Equal("", t1.PageToken)
	a.True(s.Apply(t1, page("P2", "a", "b")))

	t2, ok := s.Next()
	a.True(ok)
	a.Equal("P2", t2.PageToken)
	a.Equal("cats", t2.Query)
	a.True(s.Apply(t2, page("", "b", "c")))

	st := s.Snapshot()
	a.Equal("cats", st.Query)
	a.Equal([]string{"a", "b", "c"}, ids(st.Videos))
	a.Equal("", st.NextPageToken)

	_, ok = s.Next()
	a.False(ok)
}

func TestSessionDiscardsStaleFirstPage(t *testing.T) {
	a := assert.New(t)

	s := NewSession()

	old := s.Start("cats")
	current := s.Start("dogs")

	a.True(s.Apply(current, page("", "d1")))
	a.False(s.Apply(old, page("", "c1", "c2")))

	st := s.Snapshot()
	a.Equal("dogs", st.Query)
	a.Equal([]string{"d1"}, ids(st.Videos))
}

func TestSessionDiscardsNextPageAfterRestart(t *testing.T) {
	a := assert.New(t)

	s := NewSession()

	a.True(s.Apply(s.Start("cats"), page("P2", "c1")))

	more, ok := s.Next()
	a.True(ok)

	fresh := s.Start("dogs")

	a.False(s.Apply(more, page("P3", "c2")))
	a.Equal([]string{}, ids(s.Snapshot().Videos))

	a.True(s.Apply(fresh, page("", "d1")))
	a.Equal([]string{"d1"}, ids(s.Snapshot().Videos))
}

func TestSessionDiscardsSupersededNextPage(t *testing.T) {
	a := assert.New(t)

	s := NewSession()
	a.True(s.Apply(s.Start("cats"), page("P2", "a")))

	first, _ := s.Next()
	second, _ := s.Next()

	a.True(s.Apply(second, page("P3", "b")))
	a.False(s.Apply(first, page("P3", "b")))

	st := s.Snapshot()
	a.Equal([]string{"a", "b"}, ids(st.Videos))
	a.Equal("P3", st.NextPageToken)
}

func TestSessionSnapshotIsCopy(t *testing.T) {
	a := assert.New(t)

	s := NewSession()
	a.True(s.Apply(s.Start("cats"), page("", "a")))

	st := s.Snapshot()
	st.Videos[0].ID = "changed"

	a.Equal([]string{"a"}, ids(s.Snapshot().Videos))
}

type fakeSearcher struct {
	pages map[string]models.SearchPage
}

func (f fakeSearcher) Search(ctx context.Context, query, pageToken string) models.SearchPage {
	return f.pages[query+"|"+pageToken]
}

func TestSessionRun(t *testing.T) {
	a := assert.New(t)

	f := fakeSearcher{pages: map[string]models.SearchPage{
		"cats|":   page("P2", "a", "b"),
		"cats|P2": page("", "c"),
	}}

	s := NewSession()
	a.True(s.Run(context.Background(), f, s.Start("cats")))

	next, ok := s.Next()
	a.True(ok)
	a.True(s.Run(context.Background(), f, next))

	a.Equal([]string{"a", "b", "c"}, ids(s.Snapshot().Videos))
}
