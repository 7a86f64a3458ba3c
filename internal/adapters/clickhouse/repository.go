package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/adapters/config"
	"github.com/selivandex/marketpulse/internal/trend"
	"github.com/selivandex/marketpulse/pkg/logger"
)

// Repository handles ClickHouse analytics storage. Every trend run appends
// its aggregated history and forecast rows so dashboards can compare runs
// over time.
type Repository struct {
	db *sqlx.DB
}

// Connect opens a ClickHouse connection through the database/sql driver
func Connect(cfg *config.ClickHouseConfig) (*Repository, error) {
	db, err := sqlx.Connect("clickhouse", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	logger.Info("clickhouse connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
	)

	return &Repository{db: db}, nil
}

// NewRepository wraps an existing connection, mainly for tests
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the analytics tables if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS sentiment_daily (
			run_at      DateTime,
			day         Date,
			kind        LowCardinality(String),
			value       Float64,
			lower_bound Float64,
			upper_bound Float64,
			model_type  LowCardinality(String)
		) ENGINE = MergeTree()
		ORDER BY (day, run_at)`,
		`CREATE TABLE IF NOT EXISTS trend_runs (
			run_at           DateTime,
			data_points      UInt32,
			forecast_periods UInt32,
			trend_direction  LowCardinality(String),
			confidence       Float64,
			model_type       LowCardinality(String)
		) ENGINE = MergeTree()
		ORDER BY run_at`,
	}

	for _, stmt := range ddl {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure clickhouse schema: %w", err)
		}
	}

	return nil
}

// SaveTrendRun persists one completed analysis: a run summary row plus the
// actual daily series and the forecast with its bounds
func (r *Repository) SaveTrendRun(ctx context.Context, runAt time.Time, res *trend.Result) error {
	if res == nil || res.Failed() {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	stmt, err := tx.Preparex(`
		INSERT INTO sentiment_daily
		(run_at, day, kind, value, lower_bound, upper_bound, model_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range res.Historical {
		day, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to parse historical date %q: %w", p.Date, err)
		}

		_, err = stmt.ExecContext(ctx, runAt, day, "actual", p.Value, p.Value, p.Value, string(res.ModelType))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert actual row: %w", err)
		}
	}

	for _, p := range res.Predictions {
		day, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to parse forecast date %q: %w", p.Date, err)
		}

		_, err = stmt.ExecContext(ctx, runAt, day, "forecast", p.Yhat, p.Lower, p.Upper, string(res.ModelType))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert forecast row: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trend_runs
		(run_at, data_points, forecast_periods, trend_direction, confidence, model_type)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runAt, uint32(res.DataPoints), uint32(res.ForecastPeriods),
		string(res.TrendDirection), res.Confidence, string(res.ModelType))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert run summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Debug("saved trend run to ClickHouse",
		zap.Int("actual_rows", len(res.Historical)),
		zap.Int("forecast_rows", len(res.Predictions)),
	)

	return nil
}

// Close closes the underlying connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Health pings ClickHouse
func (r *Repository) Health(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
