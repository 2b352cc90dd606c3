// Package images downloads remote images for analysis.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/visualmatch/backend/internal/domain"
)

const defaultFetchTimeout = 15 * time.Second

// Fetcher retrieves images over HTTP with a size ceiling so a
// misbehaving URL cannot exhaust memory.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a Fetcher that refuses bodies larger than maxBytes.
func NewFetcher(maxBytes int64, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads the image at imageURL and returns its bytes and MIME type.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid URL: %v", domain.ErrImageFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrImageFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: unexpected status %d", domain.ErrImageFetchFailed, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: content type %q is not an image", domain.ErrImageFetchFailed, contentType)
	}

	// Read one byte past the ceiling to distinguish "exactly at the
	// limit" from "too large".
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading body: %v", domain.ErrImageFetchFailed, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrImageFetchFailed, f.maxBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty response body", domain.ErrImageFetchFailed)
	}

	return data, contentType, nil
}
