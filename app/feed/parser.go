package feed

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/blog-migrate/app/failure"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	location     *time.Location
}

// NewParser returns a parser that renders timestamps in location.
func NewParser(location *time.Location) *Parser {
	if location == nil {
		location = time.UTC
	}
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		location:     location,
	}
}

// Run parses an Atom document fetched from url. It never returns a partial Blog.
func (p *Parser) Run(data []byte, url string) (*Blog, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, failure.FeedParse(url, fmt.Errorf("failed to parse feed: %w", err))
	}

	if parsed.FeedType != "atom" {
		return nil, failure.FeedParse(url, fmt.Errorf("unsupported feed type %q", parsed.FeedType))
	}

	if len(parsed.Items) == 0 {
		return nil, failure.FeedParse(url, errors.New("feed has no entries"))
	}

	blog := &Blog{
		Title:   parsed.Title,
		Entries: make([]Entry, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		entry, err := p.normalizeItem(item, url)
		if err != nil {
			return nil, err
		}
		blog.Entries = append(blog.Entries, entry)
	}

	return blog, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, url string) (Entry, error) {
	// Blogger fills summary only when the feed is configured to hide content.
	if strings.TrimSpace(item.Content) == "" && strings.TrimSpace(item.Description) != "" {
		return Entry{}, failure.SummaryOnly()
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published == nil {
		return Entry{}, failure.FeedParse(url, fmt.Errorf("entry %q has no published date", item.Title))
	}

	return Entry{
		Title:       item.Title,
		PublishedAt: published.In(p.location).Truncate(time.Second),
		Body:        item.Content,
		Labels:      p.extractLabels(item.Categories),
	}, nil
}

// extractLabels restores authoring order; Blogger lists categories last-authored first.
// Label text is kept as the feed carries it; only empty terms are skipped.
func (p *Parser) extractLabels(categories []string) []string {
	labels := make([]string, 0, len(categories))
	for _, category := range categories {
		if category == "" {
			continue
		}
		labels = slices.Insert(labels, 0, category)
	}
	return labels
}
