// Package googlenews fetches stock headlines from the Google News RSS feed.
package googlenews

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

const (
	defaultFeedURL = "https://news.google.com/rss/search"
	maxHeadlines   = 10
)

// Headline is one news item. The source name is part of the title as Google
// News formats it ("제목 - 매체명").
type Headline struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
}

// Client queries the feed by instrument name and caches responses per query
// for the configured TTL, so repeated views of the same stock do not hammer
// the feed.
type Client struct {
	feedURL string
	parser  *gofeed.Parser
	cache   *cache.Cache
}

func New(ttl time.Duration) *Client {
	return &Client{
		feedURL: defaultFeedURL,
		parser:  gofeed.NewParser(),
		cache:   cache.New(ttl, 2*ttl),
	}
}

// SetFeedURL points the client at a different feed endpoint. Used in tests.
func (c *Client) SetFeedURL(feedURL string) {
	c.feedURL = feedURL
}

// Headlines returns up to ten items for the instrument name, most recent
// first as the feed orders them. The query is suffixed with "주식" to bias
// results toward market news, matching Korean-locale feed parameters.
func (c *Client) Headlines(ctx context.Context, name string) ([]Headline, error) {
	if cached, ok := c.cache.Get(name); ok {
		return cached.([]Headline), nil
	}

	query := url.QueryEscape(name + " 주식")
	feedURL := fmt.Sprintf("%s?q=%s&hl=ko&gl=KR&ceid=KR:ko", c.feedURL, query)

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching news for %q: %w", name, err)
	}

	items := feed.Items
	if len(items) > maxHeadlines {
		items = items[:maxHeadlines]
	}

	headlines := make([]Headline, 0, len(items))
	for _, item := range items {
		h := Headline{
			Title: item.Title,
			Link:  item.Link,
		}
		if item.PublishedParsed != nil {
			h.Published = *item.PublishedParsed
		}
		headlines = append(headlines, h)
	}

	c.cache.Set(name, headlines, cache.DefaultExpiration)
	return headlines, nil
}
