package httpcache

import (
	"bytes"
	"crypto/sha1"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"fknsrs.biz/p/ytbrowse/internal/ctxhttpclient"
)

type cachedResponse struct {
	UpdatedAt  time.Time
	URL        string
	Status     string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *cachedResponse) makeResponse(req *http.Request) *http.Response {
	return &http.Response{
		Status:        r.Status,
		StatusCode:    r.StatusCode,
		Header:        r.Header,
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}

type Storage interface {
	Fetch(u *url.URL) (*cachedResponse, error)
	Save(u *url.URL, res *http.Response, now time.Time) (*cachedResponse, error)
}

var bboltBucketName = []byte("cache")

type BBoltStorage struct {
	db *bbolt.DB
}

func NewBBoltStorage(db *bbolt.DB) *BBoltStorage {
	return &BBoltStorage{db: db}
}

func makeBBoltKey(u *url.URL) []byte {
	h := sha1.New()
	io.WriteString(h, u.String())
	return []byte(filepath.Join(u.Host, hex.EncodeToString(h.Sum(nil))))
}

func (s *BBoltStorage) Fetch(u *url.URL) (*cachedResponse, error) {
	var d []byte

	if err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bboltBucketName)
		if b == nil {
			return nil
		}

		if v := b.Get(makeBBoltKey(u)); v != nil {
			d = append([]byte(nil), v...)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("httpcache.BBoltStorage.Fetch: %w", err)
	}

	if d == nil {
		return nil, nil
	}

	var r cachedResponse
	if err := gob.NewDecoder(bytes.NewReader(d)).Decode(&r); err != nil {
		return nil, fmt.Errorf("httpcache.BBoltStorage.Fetch: %w", err)
	}

	return &r, nil
}

func (s *BBoltStorage) Save(u *url.URL, res *http.Response, now time.Time) (*cachedResponse, error) {
	defer res.Body.Close()

	d, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("httpcache.BBoltStorage.Save: %w", err)
	}

	r := cachedResponse{
		UpdatedAt:  now,
		URL:        redactKey(u),
		Status:     res.Status,
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       d,
	}

	buf := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(buf).Encode(r); err != nil {
		return nil, fmt.Errorf("httpcache.BBoltStorage.Save: %w", err)
	}

	if err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bboltBucketName)
		if err != nil {
			return err
		}

		return b.Put(makeBBoltKey(u), buf.Bytes())
	}); err != nil {
		return nil, fmt.Errorf("httpcache.BBoltStorage.Save: %w", err)
	}

	return &r, nil
}

func redactKey(u *url.URL) string {
	return ctxhttpclient.RedactURL(u.String())
}

// Prune removes every entry last updated before the cutoff and returns how many
// were removed. Entries that can't be decoded are removed as well.
func (s *BBoltStorage) Prune(cutoff time.Time) (int, error) {
	var removed int

	if err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bboltBucketName)
		if b == nil {
			return nil
		}

		var stale [][]byte

		if err := b.ForEach(func(k, v []byte) error {
			var r cachedResponse
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&r); err != nil || r.UpdatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}

			return nil
		}); err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		removed = len(stale)

		return nil
	}); err != nil {
		return 0, fmt.Errorf("httpcache.BBoltStorage.Prune: %w", err)
	}

	return removed, nil
}

// MaxAgeFunc decides how long a response to req may be served from the cache.
// A zero or negative duration disables caching for that request.
type MaxAgeFunc func(req *http.Request) time.Duration

func FixedMaxAge(d time.Duration) MaxAgeFunc {
	return func(req *http.Request) time.Duration { return d }
}

type Transport struct {
	transport http.RoundTripper
	storage   Storage
	maxAge    MaxAgeFunc
	now       func() time.Time
}

func NewTransport(transport http.RoundTripper, storage Storage, maxAge MaxAgeFunc) *Transport {
	if transport == nil {
		transport = http.DefaultTransport
	}

	if maxAge == nil {
		maxAge = FixedMaxAge(time.Hour * 24)
	}

	return &Transport{
		transport: transport,
		storage:   storage,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.transport.RoundTrip(req)
	}

	maxAge := t.maxAge(req)
	if maxAge <= 0 {
		return t.transport.RoundTrip(req)
	}

	if cr, err := t.storage.Fetch(req.URL); err == nil && cr != nil && t.now().Sub(cr.UpdatedAt) < maxAge {
		return cr.makeResponse(req), nil
	}

	res, err := t.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return res, nil
	}

	cr, err := t.storage.Save(req.URL, res, t.now())
	if err != nil {
		return nil, err
	}

	return cr.makeResponse(req), nil
}
