package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/observability"
)

// MaxBodySize caps the size of a downloaded body.
const MaxBodySize = 8 << 20

// Get downloads rawURL with retries. Transport errors, 429 and 5xx responses
// are retried; other non-2xx statuses fail immediately with a NOT_FOUND or
// NETWORK_ERROR code.
func Get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	return GetWithRetry(ctx, client, rawURL, 3, time.Second)
}

// GetWithRetry is [Get] with explicit retry parameters.
func GetWithRetry(ctx context.Context, client *http.Client, rawURL string, attempts int, delay time.Duration) ([]byte, error) {
	if err := merrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, merrors.Wrap(merrors.ErrCodeInvalidInput, err, "parse url")
	}
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	err = Retry(ctx, attempts, delay, func() error {
		body, err = get(ctx, client, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func get(ctx context.Context, client *http.Client, u *url.URL) ([]byte, error) {
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(merrors.Wrap(merrors.ErrCodeNetwork, err, "GET %s", u.Redacted()))
	}
	defer resp.Body.Close()

	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, merrors.New(merrors.ErrCodeNotFound, "GET %s: %s", u.Redacted(), resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, Retryable(merrors.New(merrors.ErrCodeNetwork, "GET %s: %s", u.Redacted(), resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, merrors.New(merrors.ErrCodeNetwork, "GET %s: %s", u.Redacted(), resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, Retryable(merrors.Wrap(merrors.ErrCodeNetwork, err, "read body"))
	}
	if len(body) > MaxBodySize {
		return nil, merrors.New(merrors.ErrCodeInvalidInput, "response body exceeds %s", fmt.Sprint(MaxBodySize))
	}
	return body, nil
}
