package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/selivandex/marketpulse/pkg/models"
)

type stubProvider struct {
	name    string
	enabled bool
	items   []models.NewsItem
	err     error
}

func (s *stubProvider) GetName() string { return s.name }

func (s *stubProvider) IsEnabled() bool { return s.enabled }

func (s *stubProvider) FetchLatestNews(ctx context.Context, keywords []string, limit int) ([]models.NewsItem, error) {
	return s.items, s.err
}

type stubAnalyzer struct {
	score float64
}

func (s *stubAnalyzer) Analyze(title, summary string) models.SentimentVerdict {
	return models.SentimentVerdict{Label: models.LabelForScore(s.score), Score: s.score, Confidence: 1}
}

func item(title, source string, age time.Duration) models.NewsItem {
	return models.NewsItem{
		Title:       title,
		Source:      source,
		URL:         "https://example.com/" + title,
		PublishedAt: time.Now().Add(-age),
	}
}

func TestAggregator_DedupeAcrossProviders(t *testing.T) {
	a := NewAggregator([]Provider{
		&stubProvider{name: "one", enabled: true, items: []models.NewsItem{
			item("Fed Holds Rates Steady", "one", time.Hour),
		}},
		&stubProvider{name: "two", enabled: true, items: []models.NewsItem{
			item("fed holds rates steady", "two", 2*time.Hour),
			item("Markets Rally On Earnings", "two", time.Hour),
		}},
	}, &stubAnalyzer{score: 0.3}, nil)

	got, err := a.FetchAllNews(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchAllNews failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected title dedupe to keep 2 items, got %d", len(got))
	}
}

func TestAggregator_RecencyFilter(t *testing.T) {
	a := NewAggregator([]Provider{
		&stubProvider{name: "one", enabled: true, items: []models.NewsItem{
			item("Fresh Story", "one", time.Hour),
			item("Stale Story", "one", 48*time.Hour),
		}},
	}, &stubAnalyzer{score: 0}, nil)

	got, err := a.FetchAllNews(context.Background(), 6*time.Hour)
	if err != nil {
		t.Fatalf("FetchAllNews failed: %v", err)
	}

	if len(got) != 1 || got[0].Title != "Fresh Story" {
		t.Errorf("Expected only the fresh item, got %+v", got)
	}
}

func TestAggregator_FailedProviderDoesNotAbort(t *testing.T) {
	a := NewAggregator([]Provider{
		&stubProvider{name: "broken", enabled: true, err: errors.New("boom")},
		&stubProvider{name: "ok", enabled: true, items: []models.NewsItem{
			item("Working Story", "ok", time.Hour),
		}},
	}, &stubAnalyzer{score: 0.5}, nil)

	got, err := a.FetchAllNews(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchAllNews failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("Expected 1 item from the healthy provider, got %d", len(got))
	}
}

func TestAggregator_DisabledProviderSkipped(t *testing.T) {
	a := NewAggregator([]Provider{
		&stubProvider{name: "off", enabled: false, items: []models.NewsItem{
			item("Hidden Story", "off", time.Hour),
		}},
	}, &stubAnalyzer{score: 0}, nil)

	got, err := a.FetchAllNews(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchAllNews failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Disabled provider must be skipped, got %d items", len(got))
	}
}

func TestAggregator_ScoresItems(t *testing.T) {
	a := NewAggregator([]Provider{
		&stubProvider{name: "one", enabled: true, items: []models.NewsItem{
			item("Scored Story", "one", time.Hour),
		}},
	}, &stubAnalyzer{score: 0.4}, nil)

	got, err := a.FetchAllNews(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchAllNews failed: %v", err)
	}

	if got[0].Sentiment != 0.4 || got[0].SentimentLabel != "positive" {
		t.Errorf("Item not scored: %+v", got[0])
	}
	if got[0].ProcessedAt.IsZero() {
		t.Error("ProcessedAt should be stamped")
	}
}

func TestCalculateSummary(t *testing.T) {
	news := []models.NewsItem{
		{Sentiment: 0.5},
		{Sentiment: 0.3},
		{Sentiment: -0.4},
		{Sentiment: 0.0},
	}

	summary := CalculateSummary(news)

	if summary.TotalItems != 4 {
		t.Errorf("Expected 4 items, got %d", summary.TotalItems)
	}
	if summary.PositiveCount != 2 || summary.NegativeCount != 1 || summary.NeutralCount != 1 {
		t.Errorf("Wrong breakdown: %+v", summary)
	}
	if summary.OverallSentiment != "neutral" {
		t.Errorf("Average 0.1 should read neutral, got %s", summary.OverallSentiment)
	}
}

func TestCalculateSummary_Empty(t *testing.T) {
	summary := CalculateSummary(nil)
	if summary.OverallSentiment != "neutral" || summary.TotalItems != 0 {
		t.Errorf("Empty input should yield neutral empty summary, got %+v", summary)
	}
}
