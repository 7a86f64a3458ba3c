package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/adapters/clickhouse"
	"github.com/selivandex/marketpulse/internal/adapters/config"
	"github.com/selivandex/marketpulse/internal/adapters/news"
	redisAdapter "github.com/selivandex/marketpulse/internal/adapters/redis"
	"github.com/selivandex/marketpulse/internal/adapters/telegram"
	"github.com/selivandex/marketpulse/internal/trend"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

// ResultPublisher receives completed analysis results, typically the HTTP
// server pushing them to websocket subscribers
type ResultPublisher interface {
	PublishResult(res *trend.Result)
}

// TrendWorker runs the trend analysis pipeline on the accumulated news
// sentiment. A distributed lock keeps concurrent replicas from running the
// same analysis.
type TrendWorker struct {
	repo          *news.Repository
	predictor     *trend.Predictor
	sidecar       *trend.Sidecar
	lock          *redisAdapter.RunLock
	analytics     *clickhouse.Repository
	notifier      *telegram.Notifier
	publisher     ResultPublisher
	lookback      time.Duration
	lastDirection trend.Direction
}

// NewTrendWorker creates new trend worker. Analytics, notifier, lock and
// publisher are optional; the pipeline runs without them.
func NewTrendWorker(
	repo *news.Repository,
	predictor *trend.Predictor,
	sidecar *trend.Sidecar,
	cfg *config.TrendConfig,
) *TrendWorker {
	return &TrendWorker{
		repo:      repo,
		predictor: predictor,
		sidecar:   sidecar,
		lookback:  time.Duration(cfg.LookbackDays) * 24 * time.Hour,
	}
}

// WithLock guards runs with a distributed lock
func (w *TrendWorker) WithLock(lock *redisAdapter.RunLock) *TrendWorker {
	w.lock = lock
	return w
}

// WithAnalytics persists completed runs to ClickHouse
func (w *TrendWorker) WithAnalytics(repo *clickhouse.Repository) *TrendWorker {
	w.analytics = repo
	return w
}

// WithNotifier sends Telegram alerts on direction changes
func (w *TrendWorker) WithNotifier(n *telegram.Notifier) *TrendWorker {
	w.notifier = n
	return w
}

// WithPublisher pushes results to live subscribers
func (w *TrendWorker) WithPublisher(p ResultPublisher) *TrendWorker {
	w.publisher = p
	return w
}

// Name returns worker name for logging
func (w *TrendWorker) Name() string {
	return "trend_analyzer"
}

// Run executes one analysis cycle
func (w *TrendWorker) Run(ctx context.Context) error {
	if w.lock != nil {
		acquired, err := w.lock.TryAcquire(ctx)
		if err != nil {
			return err
		}
		if !acquired {
			logger.Debug("trend run skipped, another replica holds the lock")
			return nil
		}
		defer w.lock.Release(ctx)
	}

	since := time.Now().Add(-w.lookback)
	observations, err := w.repo.GetSentimentObservations(ctx, since)
	if err != nil {
		return err
	}

	res := w.predictor.AnalyzeObservations(toTrendObservations(observations))

	if err := w.sidecar.Save(res); err != nil {
		logger.Error("failed to persist trend result",
			zap.Error(err),
		)
	}

	if res.Failed() {
		logger.Warn("trend analysis returned error result",
			zap.String("error", res.Error),
			zap.Int("data_points", res.DataPoints),
		)
		if w.notifier != nil {
			if err := w.notifier.SendErrorAlert(res.Error, res.DataPoints); err != nil {
				logger.Warn("failed to send error alert",
					zap.Error(err),
				)
			}
		}
		return nil
	}

	if w.analytics != nil {
		if err := w.analytics.SaveTrendRun(ctx, res.GeneratedAt, res); err != nil {
			logger.Error("failed to save trend run to analytics",
				zap.Error(err),
			)
		}
	}

	w.alertOnDirectionChange(res)

	if w.publisher != nil {
		w.publisher.PublishResult(res)
	}

	return nil
}

func (w *TrendWorker) alertOnDirectionChange(res *trend.Result) {
	previous := w.lastDirection
	w.lastDirection = res.TrendDirection

	if previous == "" || previous == res.TrendDirection {
		return
	}

	logger.Info("trend direction changed",
		zap.String("previous", string(previous)),
		zap.String("current", string(res.TrendDirection)),
	)

	if w.notifier == nil {
		return
	}

	if err := w.notifier.SendTrendAlert(previous, res.TrendDirection, trend.Summarize(res)); err != nil {
		logger.Warn("failed to send trend alert",
			zap.Error(err),
		)
	}
}

func toTrendObservations(obs []models.SentimentObservation) []trend.Observation {
	out := make([]trend.Observation, len(obs))
	for i, o := range obs {
		out[i] = trend.Observation{Timestamp: o.PublishedAt, Score: o.Score}
	}
	return out
}
