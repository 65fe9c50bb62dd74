package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hamed0406/maintwindow/internal/domain"
	"github.com/hamed0406/maintwindow/internal/timeline"
)

// HTTPSource fetches data.json from a static host. Each request carries a
// cache-busting "v" parameter that changes once per hour.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Now    func() time.Time
}

func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: timeout},
		Now:    time.Now,
	}
}

func (h *HTTPSource) Fetch(ctx context.Context) ([]domain.Record, error) {
	target, err := h.requestURL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch snapshot: http %d", resp.StatusCode)
	}
	return Decode(resp.Body)
}

func (h *HTTPSource) requestURL() (string, error) {
	u, err := url.Parse(h.URL)
	if err != nil {
		return "", fmt.Errorf("parse snapshot url: %w", err)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	q := u.Query()
	q.Set("v", strconv.FormatInt(timeline.TruncateHour(now()).UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
