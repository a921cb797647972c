package ctxhttpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// context registration

var httpClientKey int

func WithHTTPClient(ctx context.Context, httpClient *http.Client) context.Context {
	return context.WithValue(ctx, &httpClientKey, httpClient)
}

func GetHTTPClient(ctx context.Context) *http.Client {
	if v := ctx.Value(&httpClientKey); v != nil {
		if c, ok := v.(*http.Client); ok && c != nil {
			return c
		}
	}

	return http.DefaultClient
}

// middleware

func Register(httpClient *http.Client) func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	return func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		next(rw, r.WithContext(WithHTTPClient(r.Context(), httpClient)))
	}
}

// main interface

// SecretParameters are query parameters whose values are masked by RedactURL.
var SecretParameters = []string{"key", "api_key", "access_token"}

const redacted = "xxxxx"

// RedactURL masks the values of SecretParameters in raw. Input that doesn't
// parse as a URL is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()

	var changed bool
	for _, name := range SecretParameters {
		if q.Has(name) {
			q.Set(name, redacted)
			changed = true
		}
	}

	if !changed {
		return raw
	}

	u.RawQuery = q.Encode()

	return u.String()
}

// redactError masks secrets in the URL carried by a *url.Error, which the
// client returns for every transport failure.
func redactError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = RedactURL(uerr.URL)
	}

	return err
}

func Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ctxhttpclient.Get: %w", redactError(err))
	}

	res, err := GetHTTPClient(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("ctxhttpclient.Get: %w", redactError(err))
	}

	return res, nil
}
