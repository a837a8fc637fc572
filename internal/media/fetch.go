package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var errTooLarge = errors.New("remote file exceeds size limit")

// Download is a fetched remote resource.
type Download struct {
	Data        []byte
	ContentType string
}

// Fetcher downloads remote media with a per-request deadline.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	maxBytes  int64
}

func NewFetcher(client *http.Client, userAgent string, timeout time.Duration, maxBytes int64) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		maxBytes:  maxBytes,
	}
}

// Fetch performs a GET and returns the body of any 2xx response.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Download, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch: status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, errTooLarge
	}

	return &Download{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}
