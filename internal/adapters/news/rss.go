package news

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

const maxPerFeed = 20

// FeedConfig is a single RSS/Atom feed entry from the feeds file
type FeedConfig struct {
	URL       string  `yaml:"url"`
	Name      string  `yaml:"name"`
	Relevance float64 `yaml:"relevance"`
}

type feedsFile struct {
	Feeds []FeedConfig `yaml:"feeds"`
}

// LoadFeeds reads the YAML feeds file
func LoadFeeds(path string) ([]FeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}

	if len(f.Feeds) == 0 {
		return nil, fmt.Errorf("feeds file %s defines no feeds", path)
	}

	return f.Feeds, nil
}

// RSSProvider fetches financial news from configured RSS/Atom feeds
type RSSProvider struct {
	enabled bool
	parser  *gofeed.Parser
	feeds   []FeedConfig
}

// NewRSSProvider creates new RSS provider
func NewRSSProvider(enabled bool, feeds []FeedConfig) *RSSProvider {
	return &RSSProvider{
		enabled: enabled,
		parser:  gofeed.NewParser(),
		feeds:   feeds,
	}
}

func (r *RSSProvider) GetName() string {
	return "rss"
}

func (r *RSSProvider) IsEnabled() bool {
	return r.enabled && len(r.feeds) > 0
}

func (r *RSSProvider) FetchLatestNews(ctx context.Context, keywords []string, limit int) ([]models.NewsItem, error) {
	if !r.IsEnabled() {
		return nil, nil
	}

	news := make([]models.NewsItem, 0)

	for _, fc := range r.feeds {
		name := fc.Name
		if name == "" {
			name = sourceNameFromURL(fc.URL)
		}

		items, err := r.fetchFeed(ctx, fc, name, keywords, limit)
		if err != nil {
			logger.Warn("failed to fetch feed",
				zap.String("feed", fc.URL),
				zap.Error(err),
			)
			continue
		}

		news = append(news, items...)
	}

	logger.Debug("fetched RSS news",
		zap.Int("feeds", len(r.feeds)),
		zap.Int("count", len(news)),
	)

	return news, nil
}

func (r *RSSProvider) fetchFeed(ctx context.Context, fc FeedConfig, source string, keywords []string, limit int) ([]models.NewsItem, error) {
	feed, err := r.parser.ParseURLWithContext(fc.URL, ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > maxPerFeed {
		limit = maxPerFeed
	}

	relevance := fc.Relevance
	if relevance <= 0 {
		relevance = 0.7
	}

	items := make([]models.NewsItem, 0, limit)
	for _, item := range feed.Items {
		if len(items) >= limit {
			break
		}

		itemURL := item.Link
		if itemURL == "" {
			itemURL = item.GUID
		}
		title := strings.TrimSpace(item.Title)
		if itemURL == "" || title == "" {
			continue
		}

		summary := stripHTML(item.Description)
		if summary == "" && item.Content != "" {
			summary = stripHTML(item.Content)
		}

		if !isRelevant(title+" "+summary, keywords) {
			continue
		}

		publishedAt := time.Now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		author := source
		if item.Author != nil && item.Author.Name != "" {
			author = item.Author.Name
		}

		items = append(items, models.NewsItem{
			ID:          fmt.Sprintf("rss_%s_%x", source, hashURL(itemURL)),
			Source:      source,
			Title:       title,
			Summary:     summary,
			URL:         itemURL,
			Author:      author,
			PublishedAt: publishedAt,
			Relevance:   relevance,
			Keywords:    keywords,
		})
	}

	return items, nil
}

// isRelevant checks if article text mentions any of the keywords
func isRelevant(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}

	lowerText := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lowerText, strings.ToLower(keyword)) {
			return true
		}
	}

	return false
}

// hashURL gives a short stable identifier for an article URL
func hashURL(s string) uint32 {
	// FNV-1a
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// stripHTML removes tags and decodes common entities from feed descriptions
func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func sourceNameFromURL(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil {
		return feedURL
	}
	host := strings.ToLower(u.Hostname())

	for _, prefix := range []string{"www.", "blog.", "blogs.", "rss.", "feeds."} {
		host = strings.TrimPrefix(host, prefix)
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return host
}
