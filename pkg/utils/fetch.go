package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// maxFetchSize bounds how much of a remote image is read.
const maxFetchSize = 32 << 20

// Fetcher resolves an asset reference to its bytes. A reference is a data
// URL, an http(s) URL or a local file path.
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

func NewFetcher() *Fetcher {
	return NewFetcherWithClient(http.DefaultClient)
}

// NewFetcherWithClient uses the given HTTP client for remote references.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client, maxSize: maxFetchSize}
}

// Fetch returns the content and content type of source.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, string, error) {
	switch {
	case source == "":
		return nil, "", fmt.Errorf("empty asset reference")
	case strings.HasPrefix(source, "data:"):
		u, err := dataurl.DecodeString(source)
		if err != nil {
			return nil, "", fmt.Errorf("invalid data URL: %w", err)
		}
		return u.Data, u.ContentType(), nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return f.get(ctx, source)
	default:
		content, err := os.ReadFile(source)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		return content, http.DetectContentType(content), nil
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("bad status: %s", resp.Status)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(content)) > f.maxSize {
		return nil, "", fmt.Errorf("asset %s exceeds %d bytes", url, f.maxSize)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	return content, contentType, nil
}
