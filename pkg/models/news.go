package models

import "time"

// NewsItem represents a single scored news article
type NewsItem struct {
	PublishedAt    time.Time `json:"published_at" db:"published_at"`
	ProcessedAt    time.Time `json:"processed_at" db:"created_at"`
	ID             string    `json:"id" db:"id"`
	Source         string    `json:"source" db:"source"`
	Title          string    `json:"title" db:"title"`
	Summary        string    `json:"summary" db:"summary"`
	URL            string    `json:"url" db:"url"`
	Author         string    `json:"author" db:"author"`
	SentimentLabel string    `json:"sentiment_label" db:"sentiment_label"`
	Keywords       []string  `json:"keywords" db:"keywords"`
	Sentiment      float64   `json:"sentiment_score" db:"sentiment"`
	Relevance      float64   `json:"relevance" db:"relevance"`
}

// NewsSummary aggregates sentiment over a batch of articles
type NewsSummary struct {
	UpdatedAt        time.Time  `json:"updated_at"`
	OverallSentiment string     `json:"overall_sentiment"`
	RecentNews       []NewsItem `json:"recent_news"`
	TotalItems       int        `json:"total_items"`
	PositiveCount    int        `json:"positive_count"`
	NegativeCount    int        `json:"negative_count"`
	NeutralCount     int        `json:"neutral_count"`
	AverageSentiment float64    `json:"average_sentiment"`
}

// GetOverallSentiment maps the average score to a categorical label
func (ns *NewsSummary) GetOverallSentiment() string {
	if ns.AverageSentiment > 0.2 {
		return "bullish"
	} else if ns.AverageSentiment < -0.2 {
		return "bearish"
	}
	return "neutral"
}
