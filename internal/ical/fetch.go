package ical

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxFeedBytes caps how much of a feed body is read. Busy-calendar feeds are
// small; anything larger is a misconfigured URL.
const maxFeedBytes = 5 << 20

// Fetcher retrieves calendar documents from channel feed URLs. It is pure
// I/O: no parsing, no state.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar, text/plain;q=0.9, */*;q=0.8")
	req.Header.Set("User-Agent", "lodgesync/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}
