package collect

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// Document is raw text pulled from one upstream, handed to an Extractor.
type Document struct {
	Source string
	Format string // "xml" or "html"
	Body   string
}

// Source produces one Document per collection run.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Document, error)
}

const defaultFetchTimeout = 10 * time.Second

func defaultClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &http.Client{Timeout: timeout}
}

// browserUserAgent returns a desktop Chrome user agent with a randomised build.
func browserUserAgent() string {
	return "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		fmt.Sprintf("Chrome/135.0.%d.%d ", rand.Intn(9999), rand.Intn(99)) +
		"Safari/537.36"
}

// get issues a browser-like GET and returns the body of a 200 response.
// The caller closes the body.
func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("request %s: http error %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
