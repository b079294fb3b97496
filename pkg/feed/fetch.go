package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jpillora/backoff"
)

const (
	fetchAttempts = 4
	fetchTimeout  = 10 * time.Second
)

// Fetch downloads a document body over HTTP, retrying transient failures
// with exponential backoff. A 404 means the document is absent and
// returns nil without error, matching the file loaders.
func Fetch(ctx context.Context, url string) (io.Reader, error) {
	client := &http.Client{Timeout: fetchTimeout}

	retry := &backoff.Backoff{
		Min:    250 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retry.Duration()):
			}
		}

		body, err := fetchOnce(ctx, client, url)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, errAbsent) {
			return nil, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

var errAbsent = errors.New("document absent")

func fetchOnce(ctx context.Context, client *http.Client, url string) (io.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errAbsent
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(data), nil
}
