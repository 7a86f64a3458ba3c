package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/adapters/config"
	"github.com/selivandex/marketpulse/internal/adapters/news"
	"github.com/selivandex/marketpulse/pkg/logger"
)

// NewsWorker fetches scored news from all providers and persists them so
// the trend worker has a growing observation history
type NewsWorker struct {
	aggregator  *news.Aggregator
	repo        *news.Repository
	fetchWindow time.Duration
	retention   time.Duration
	lastCleanup time.Time
}

// NewNewsWorker creates new news worker
func NewNewsWorker(aggregator *news.Aggregator, repo *news.Repository, cfg *config.NewsConfig) *NewsWorker {
	return &NewsWorker{
		aggregator:  aggregator,
		repo:        repo,
		fetchWindow: cfg.FetchWindow,
		retention:   time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	}
}

// Name returns worker name for logging
func (w *NewsWorker) Name() string {
	return "news_collector"
}

// Run fetches one batch of news and upserts it. Old articles are purged at
// most once per day.
func (w *NewsWorker) Run(ctx context.Context) error {
	items, err := w.aggregator.FetchAllNews(ctx, w.fetchWindow)
	if err != nil {
		return err
	}

	saved, err := w.repo.SaveNewsItems(ctx, items)
	if err != nil {
		return err
	}

	logger.Info("news batch collected",
		zap.Int("fetched", len(items)),
		zap.Int("saved", saved),
	)

	if time.Since(w.lastCleanup) >= 24*time.Hour {
		deleted, err := w.repo.CleanupOldNews(ctx, w.retention)
		if err != nil {
			logger.Warn("news cleanup failed",
				zap.Error(err),
			)
		} else if deleted > 0 {
			logger.Info("old news purged",
				zap.Int64("deleted", deleted),
			)
		}
		w.lastCleanup = time.Now()
	}

	return nil
}
