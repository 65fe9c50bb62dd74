package collect

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// helpLinkShort is rewritten before keyword matching so the short link
// itself never counts as a keyword hit.
const helpLinkShort = "bung.ie/destiny2help"

type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	XMLName     xml.Name `xml:"item"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
}

// Feed reads an RSS feed (e.g. a Mastodon account) and keeps the posts that
// mention one of Keywords.
type Feed struct {
	URL      string
	Keywords []string
	Client   *http.Client
	Logger   *zap.Logger
}

func NewFeed(url string, keywords []string, timeout time.Duration, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{URL: url, Keywords: keywords, Client: defaultClient(timeout), Logger: logger}
}

func (f *Feed) Name() string { return "feed" }

func (f *Feed) Fetch(ctx context.Context) (Document, error) {
	body, err := get(ctx, f.Client, f.URL)
	if err != nil {
		return Document{}, err
	}
	defer body.Close()

	var rss rssDocument
	if err := xml.NewDecoder(body).Decode(&rss); err != nil {
		return Document{}, fmt.Errorf("parse rss: %w", err)
	}

	kept := f.filter(rss.Channel.Items)
	f.Logger.Info("feed_filtered",
		zap.String("url", f.URL),
		zap.Int("items", len(rss.Channel.Items)),
		zap.Int("kept", len(kept)),
	)

	out, err := xml.MarshalIndent(kept, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("encode rss items: %w", err)
	}
	return Document{Source: f.Name(), Format: "xml", Body: string(out)}, nil
}

func (f *Feed) filter(items []rssItem) []rssItem {
	kept := make([]rssItem, 0, len(items))
	for _, item := range items {
		desc := strings.ToLower(item.Description)
		desc = strings.ReplaceAll(desc, helpLinkShort, "HELP_LINK")
		for _, kw := range f.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(desc, kw) {
				kept = append(kept, item)
				break
			}
		}
	}
	return kept
}
