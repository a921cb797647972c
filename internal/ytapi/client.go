// Package ytapi talks to the YouTube Data API v3. Every call fails softly:
// problems are logged through the context logger and surface as a nil result.
package ytapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jeffail/gabs/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"fknsrs.biz/p/ytbrowse/internal/ctxhttpclient"
	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
)

const (
	EndpointSearch   = "search"
	EndpointVideos   = "videos"
	EndpointChannels = "channels"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// CacheTTL is how long search and video listings may be reused.
const CacheTTL = time.Hour

type Options struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
}

type Client struct {
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}

		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  opts.APIKey,
		limiter: limiter,
	}
}

func (c *Client) makeURL(endpoint string, params map[string]string) string {
	q := make(url.Values)
	q.Set("key", c.apiKey)
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}

	return c.baseURL + "/" + endpoint + "?" + q.Encode()
}

// StatusError is returned for non-2xx responses. Message is the API's
// error.message, when the body has one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Fetch performs a GET against endpoint with the given query parameters and
// returns the decoded body, or nil if anything went wrong.
func (c *Client) Fetch(ctx context.Context, endpoint string, params map[string]string) *gabs.Container {
	l := ctxlogger.GetLogger(ctx).WithField("ytapi.endpoint", endpoint)

	if c.apiKey == "" {
		l.Error("video api key is not configured")
		return nil
	}

	j, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		var serr *StatusError
		if errors.As(err, &serr) {
			l = l.WithFields(logrus.Fields{
				"http.status_code":    serr.StatusCode,
				"ytapi.error_message": serr.Message,
			})
		}

		l.WithError(err).Error("video api request failed")

		return nil
	}

	return j
}

func (c *Client) fetch(ctx context.Context, endpoint string, params map[string]string) (*gabs.Container, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ytapi.Client.fetch: rate limiter: %w", err)
	}

	res, err := ctxhttpclient.Get(ctx, c.makeURL(endpoint, params))
	if err != nil {
		return nil, fmt.Errorf("ytapi.Client.fetch: %w", err)
	}
	defer res.Body.Close()

	d, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("ytapi.Client.fetch: could not read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		serr := &StatusError{StatusCode: res.StatusCode}
		if j, err := gabs.ParseJSON(d); err == nil {
			serr.Message = str(j, "error.message")
		}

		return nil, fmt.Errorf("ytapi.Client.fetch: %w", serr)
	}

	j, err := gabs.ParseJSON(d)
	if err != nil {
		return nil, fmt.Errorf("ytapi.Client.fetch: could not parse response: %w", err)
	}

	return j, nil
}

// CacheMaxAge is the response cache policy for API requests. Search and video
// listings may be reused for an hour; everything else is always fetched.
func CacheMaxAge(req *http.Request) time.Duration {
	switch req.URL.Path[strings.LastIndex(req.URL.Path, "/")+1:] {
	case EndpointSearch, EndpointVideos:
		return CacheTTL
	default:
		return 0
	}
}
