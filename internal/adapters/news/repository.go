package news

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/selivandex/marketpulse/pkg/models"
)

// Repository handles database operations for scored news
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new news repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// SaveNewsItems saves news items to database (upsert on source+url)
func (r *Repository) SaveNewsItems(ctx context.Context, news []models.NewsItem) (int, error) {
	if len(news) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO news_items (
			id, source, title, summary, url, author,
			published_at, sentiment, sentiment_label, relevance, keywords, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (source, url) DO UPDATE SET
			sentiment = EXCLUDED.sentiment,
			sentiment_label = EXCLUDED.sentiment_label,
			relevance = EXCLUDED.relevance
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, item := range news {
		_, err := stmt.ExecContext(ctx,
			item.ID,
			item.Source,
			item.Title,
			item.Summary,
			item.URL,
			item.Author,
			item.PublishedAt,
			item.Sentiment,
			item.SentimentLabel,
			item.Relevance,
			pq.Array(item.Keywords),
			time.Now(),
		)

		if err == nil {
			saved++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return saved, nil
}

// GetRecentNews gets recent news from database
func (r *Repository) GetRecentNews(ctx context.Context, since time.Duration, limit int) ([]models.NewsItem, error) {
	cutoff := time.Now().Add(-since)

	query := `
		SELECT
			id, source, title, summary, url, author,
			published_at, sentiment, sentiment_label, relevance, keywords
		FROM news_items
		WHERE published_at > $1
		ORDER BY published_at DESC, relevance DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	news := make([]models.NewsItem, 0)
	for rows.Next() {
		var item models.NewsItem
		var keywords pq.StringArray

		err := rows.Scan(
			&item.ID,
			&item.Source,
			&item.Title,
			&item.Summary,
			&item.URL,
			&item.Author,
			&item.PublishedAt,
			&item.Sentiment,
			&item.SentimentLabel,
			&item.Relevance,
			&keywords,
		)

		if err != nil {
			continue
		}

		item.Keywords = keywords
		news = append(news, item)
	}

	return news, nil
}

// GetSentimentObservations returns scored articles since the cutoff as
// timestamped observations ordered by publication time, the input form the
// trend engine consumes
func (r *Repository) GetSentimentObservations(ctx context.Context, since time.Time) ([]models.SentimentObservation, error) {
	query := `
		SELECT published_at, sentiment
		FROM news_items
		WHERE published_at >= $1
		ORDER BY published_at ASC
	`

	obs := make([]models.SentimentObservation, 0)
	if err := r.db.SelectContext(ctx, &obs, query, since); err != nil {
		return nil, fmt.Errorf("failed to query sentiment observations: %w", err)
	}

	return obs, nil
}

// CleanupOldNews removes news older than the retention window
func (r *Repository) CleanupOldNews(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM news_items
		WHERE published_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old news: %w", err)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// GetSentimentSummary gets aggregated sentiment from database
func (r *Repository) GetSentimentSummary(ctx context.Context, since time.Duration) (*models.NewsSummary, error) {
	cutoff := time.Now().Add(-since)

	row := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE sentiment > 0.2) as positive,
			COUNT(*) FILTER (WHERE sentiment < -0.2) as negative,
			COUNT(*) FILTER (WHERE sentiment BETWEEN -0.2 AND 0.2) as neutral,
			COALESCE(AVG(sentiment), 0) as avg_sentiment
		FROM news_items
		WHERE published_at > $1
	`, cutoff)

	var total, positive, negative, neutral int
	var avgSentiment float64

	if err := row.Scan(&total, &positive, &negative, &neutral, &avgSentiment); err != nil {
		return nil, fmt.Errorf("failed to get sentiment summary: %w", err)
	}

	recentNews, err := r.GetRecentNews(ctx, since, 5)
	if err != nil {
		return nil, err
	}

	summary := &models.NewsSummary{
		TotalItems:       total,
		PositiveCount:    positive,
		NegativeCount:    negative,
		NeutralCount:     neutral,
		AverageSentiment: avgSentiment,
		RecentNews:       recentNews,
		UpdatedAt:        time.Now(),
	}

	summary.OverallSentiment = summary.GetOverallSentiment()

	return summary, nil
}
