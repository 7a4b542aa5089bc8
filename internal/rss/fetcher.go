package rss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBodyBytes caps a feed document when the caller sets no limit.
const DefaultMaxBodyBytes = 10 << 20

// ErrBodyTooLarge is wrapped by FetchError when a response exceeds the limit.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// Fetcher retrieves raw feed documents over HTTP. It performs exactly one
// request per call; retry policy belongs to the caller.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// NewFetcher creates a Fetcher using client. maxBodyBytes <= 0 selects
// DefaultMaxBodyBytes.
func NewFetcher(client *http.Client, userAgent string, maxBodyBytes int64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{
		client:       client,
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
	}
}

// Fetch GETs url and returns the response body. Every failure, including a
// non-2xx status, is returned as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, &FetchError{URL: url, Err: ErrBodyTooLarge}
	}
	return body, nil
}
