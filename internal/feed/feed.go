package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/matheuskafuri/benkyou/internal/config"
	"github.com/mmcdole/gofeed"
)

// Entry is a single feed item before concept tagging.
type Entry struct {
	Title   string
	Summary string
	Link    string
	// PublishedRaw is the published date as written in the feed, or the
	// updated date when no published date is present.
	PublishedRaw string
}

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]Entry, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher(timeout time.Duration, userAgent string) *RSSFetcher {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	p.UserAgent = userAgent
	return &RSSFetcher{parser: p}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]Entry, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		published := item.Published
		if published == "" {
			published = item.Updated
		}
		entries = append(entries, Entry{
			Title:        item.Title,
			Summary:      summary,
			Link:         item.Link,
			PublishedRaw: published,
		})
	}
	return entries, nil
}
