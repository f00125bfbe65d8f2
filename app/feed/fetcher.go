package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/blog-migrate/app/failure"
)

const (
	feedScheme      = "feed://"
	postsFeedPath   = "feeds/posts/default"
	maxResultsParam = "max-results="
	// MaxResults asks Blogger for every post; it pages at 25 by default.
	MaxResults = 1 << 30
)

var blogHomePage = regexp.MustCompile(`^https?://[^/.]+\.blogspot\.com/?$`)

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// NormalizeURL returns the URL that is actually requested for rawURL.
func NormalizeURL(rawURL string, autocorrect bool) string {
	url := strings.TrimSpace(rawURL)

	if strings.HasPrefix(url, feedScheme) {
		url = "http://" + strings.TrimPrefix(url, feedScheme)
	}

	if autocorrect && blogHomePage.MatchString(url) {
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
		url += postsFeedPath
	}

	if !strings.Contains(url, maxResultsParam) {
		if strings.Contains(url, "?") {
			url += "&"
		} else {
			url += "?"
		}
		url += maxResultsParam + strconv.Itoa(MaxResults)
	}

	return url
}

// Run downloads the feed behind rawURL and returns its body with the effective URL.
func (f *Fetcher) Run(ctx context.Context, rawURL string, autocorrect bool) ([]byte, string, error) {
	url := NormalizeURL(rawURL, autocorrect)

	data, err := f.fetchFeed(ctx, url)
	if err != nil {
		return nil, url, failure.FeedDownload(url, err)
	}
	if len(data) == 0 {
		return nil, url, failure.FeedDownload(url, errors.New("empty response body"))
	}

	slog.Debug("Feed downloaded", "url", url, "bytes", len(data))

	return data, url, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
