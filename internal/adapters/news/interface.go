package news

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

// Provider represents news source provider interface
type Provider interface {
	// GetName returns provider name
	GetName() string

	// FetchLatestNews fetches latest news items
	FetchLatestNews(ctx context.Context, keywords []string, limit int) ([]models.NewsItem, error)

	// IsEnabled returns whether provider is enabled
	IsEnabled() bool
}

// SentimentAnalyzer scores article text
type SentimentAnalyzer interface {
	Analyze(title, summary string) models.SentimentVerdict
}

// Aggregator aggregates news from multiple sources and scores them
type Aggregator struct {
	providers []Provider
	analyzer  SentimentAnalyzer
	keywords  []string
}

// NewAggregator creates new news aggregator
func NewAggregator(providers []Provider, analyzer SentimentAnalyzer, keywords []string) *Aggregator {
	return &Aggregator{
		providers: providers,
		analyzer:  analyzer,
		keywords:  keywords,
	}
}

// FetchAllNews fetches news from all enabled providers, deduplicates,
// filters by recency and scores sentiment
func (a *Aggregator) FetchAllNews(ctx context.Context, since time.Duration) ([]models.NewsItem, error) {
	allNews := make([]models.NewsItem, 0)

	// Query all providers in parallel
	type result struct {
		err  error
		name string
		news []models.NewsItem
	}

	results := make(chan result, len(a.providers))
	enabledCount := 0

	for _, provider := range a.providers {
		if !provider.IsEnabled() {
			continue
		}
		enabledCount++

		go func(p Provider) {
			news, err := p.FetchLatestNews(ctx, a.keywords, 20)
			results <- result{news: news, err: err, name: p.GetName()}
		}(provider)
	}

	for i := 0; i < enabledCount; i++ {
		res := <-results
		if res.err != nil {
			logger.Warn("news provider fetch failed",
				zap.String("provider", res.name),
				zap.Error(res.err),
			)
			continue
		}
		allNews = append(allNews, res.news...)
	}

	cutoff := time.Now().Add(-since)
	seen := make(map[string]bool)
	filtered := make([]models.NewsItem, 0, len(allNews))

	for _, item := range allNews {
		if !item.PublishedAt.After(cutoff) {
			continue
		}

		// Cross-provider dedupe on normalized title
		key := strings.ToLower(strings.TrimSpace(item.Title))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if a.analyzer != nil {
			verdict := a.analyzer.Analyze(item.Title, item.Summary)
			item.Sentiment = verdict.Score
			item.SentimentLabel = verdict.Label
		}
		item.ProcessedAt = time.Now()

		filtered = append(filtered, item)
	}

	logger.Debug("aggregated news batch",
		zap.Int("fetched", len(allNews)),
		zap.Int("kept", len(filtered)),
	)

	return filtered, nil
}

// CalculateSummary calculates news summary with sentiment breakdown
func CalculateSummary(news []models.NewsItem) *models.NewsSummary {
	if len(news) == 0 {
		return &models.NewsSummary{
			OverallSentiment: "neutral",
			UpdatedAt:        time.Now(),
		}
	}

	var totalSentiment float64
	positiveCount := 0
	negativeCount := 0
	neutralCount := 0

	for _, item := range news {
		totalSentiment += item.Sentiment

		if item.Sentiment > 0.2 {
			positiveCount++
		} else if item.Sentiment < -0.2 {
			negativeCount++
		} else {
			neutralCount++
		}
	}

	avgSentiment := totalSentiment / float64(len(news))

	recentNews := news
	if len(recentNews) > 5 {
		recentNews = recentNews[:5]
	}

	summary := &models.NewsSummary{
		TotalItems:       len(news),
		PositiveCount:    positiveCount,
		NegativeCount:    negativeCount,
		NeutralCount:     neutralCount,
		AverageSentiment: avgSentiment,
		RecentNews:       recentNews,
		UpdatedAt:        time.Now(),
	}

	summary.OverallSentiment = summary.GetOverallSentiment()

	return summary
}
