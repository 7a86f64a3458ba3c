package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

// SearchProvider queries a NewsAPI-compatible keyword search endpoint.
// Each configured keyword becomes one query; articles are deduplicated by
// URL across queries.
type SearchProvider struct {
	enabled bool
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewSearchProvider creates new keyword search provider
func NewSearchProvider(enabled bool, apiKey, baseURL string) *SearchProvider {
	return &SearchProvider{
		enabled: enabled,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *SearchProvider) GetName() string {
	return "search"
}

func (s *SearchProvider) IsEnabled() bool {
	return s.enabled && s.apiKey != ""
}

func (s *SearchProvider) FetchLatestNews(ctx context.Context, keywords []string, limit int) ([]models.NewsItem, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	if len(keywords) == 0 {
		keywords = []string{"stock market"}
	}

	seen := make(map[string]bool)
	news := make([]models.NewsItem, 0)

	for _, keyword := range keywords {
		if len(news) >= limit {
			break
		}

		articles, err := s.search(ctx, keyword, limit)
		if err != nil {
			logger.Warn("keyword search failed",
				zap.String("keyword", keyword),
				zap.Error(err),
			)
			continue
		}

		for _, item := range articles {
			if seen[item.URL] {
				continue
			}
			seen[item.URL] = true
			news = append(news, item)
		}
	}

	if len(news) > limit {
		news = news[:limit]
	}

	logger.Debug("fetched search news",
		zap.Int("keywords", len(keywords)),
		zap.Int("count", len(news)),
	)

	return news, nil
}

type searchResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string    `json:"author"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func (s *SearchProvider) search(ctx context.Context, keyword string, limit int) ([]models.NewsItem, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprintf("%d", limit))

	endpoint := fmt.Sprintf("%s?%s", s.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Status != "ok" {
		return nil, fmt.Errorf("search API error: %s", result.Message)
	}

	news := make([]models.NewsItem, 0, len(result.Articles))
	for _, article := range result.Articles {
		title := strings.TrimSpace(article.Title)
		if title == "" || article.URL == "" {
			continue
		}

		source := article.Source.Name
		if source == "" {
			source = "search"
		}

		author := article.Author
		if author == "" {
			author = source
		}

		news = append(news, models.NewsItem{
			ID:          fmt.Sprintf("search_%x", hashURL(article.URL)),
			Source:      strings.ToLower(source),
			Title:       title,
			Summary:     strings.TrimSpace(article.Description),
			URL:         article.URL,
			Author:      author,
			PublishedAt: article.PublishedAt,
			Relevance:   0.6,
			Keywords:    []string{keyword},
		})
	}

	return news, nil
}
