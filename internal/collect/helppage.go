package collect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrArticleMissing means the help page had no article body.
var ErrArticleMissing = errors.New("collect: article body not found")

const articleSelector = "[itemprop='articleBody']"

// HelpPage reads the help-centre article listing planned maintenance and
// reduces it to bare markup.
type HelpPage struct {
	URL    string
	Client *http.Client
}

func NewHelpPage(url string, timeout time.Duration) *HelpPage {
	return &HelpPage{URL: url, Client: defaultClient(timeout)}
}

func (h *HelpPage) Name() string { return "help_page" }

func (h *HelpPage) Fetch(ctx context.Context) (Document, error) {
	body, err := get(ctx, h.Client, h.URL)
	if err != nil {
		return Document{}, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}
	content, err := articleHTML(doc)
	if err != nil {
		return Document{}, err
	}
	return Document{Source: h.Name(), Format: "html", Body: content}, nil
}

func articleHTML(doc *goquery.Document) (string, error) {
	article := doc.Find(articleSelector).First()
	if article.Length() == 0 {
		return "", ErrArticleMissing
	}
	for _, n := range article.Nodes {
		stripAttributes(n)
	}
	content, err := article.Html()
	if err != nil {
		return "", fmt.Errorf("render article: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func stripAttributes(n *html.Node) {
	if n.Type == html.ElementNode {
		n.Attr = nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripAttributes(c)
	}
}
