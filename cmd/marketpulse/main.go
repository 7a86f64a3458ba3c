package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/lib/pq"

	"github.com/selivandex/marketpulse/internal/adapters/clickhouse"
	"github.com/selivandex/marketpulse/internal/adapters/config"
	"github.com/selivandex/marketpulse/internal/adapters/database"
	"github.com/selivandex/marketpulse/internal/adapters/news"
	redisAdapter "github.com/selivandex/marketpulse/internal/adapters/redis"
	"github.com/selivandex/marketpulse/internal/adapters/telegram"
	"github.com/selivandex/marketpulse/internal/loader"
	"github.com/selivandex/marketpulse/internal/reports"
	"github.com/selivandex/marketpulse/internal/sentiment"
	"github.com/selivandex/marketpulse/internal/server"
	"github.com/selivandex/marketpulse/internal/trend"
	"github.com/selivandex/marketpulse/internal/workers"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/templates"
	"github.com/selivandex/marketpulse/pkg/worker"
)

var version = "dev"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "marketpulse",
	Short:   "Financial news sentiment trend prediction",
	Long:    "MarketPulse collects financial news, scores sentiment and forecasts the market mood trend.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments set the environment directly
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collection and analysis service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runService()
	},
}

var (
	analyzeInput   string
	analyzeDays    int
	analyzePeriods int
	reportOut      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run one trend analysis over a scored records file or stored news",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := analyzeInput
		if len(args) == 1 {
			input = args[0]
		}
		return runAnalyze(input, analyzeDays, analyzePeriods)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a report from the last persisted analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(reportOut)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "Path to a JSON or CSV file of scored records")
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 0, "Analyze stored news from the last N days instead of a file")
	analyzeCmd.Flags().IntVar(&analyzePeriods, "periods", 0, "Forecast horizon in days (default from config)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Write the report to a file instead of stdout")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runAnalyze is the one-shot pipeline: load records from a file or the
// article store, analyze, persist the sidecar and print the summary
func runAnalyze(input string, days, periods int) error {
	defer logger.Sync()

	if periods <= 0 {
		periods = cfg.Trend.ForecastPeriods
	}
	predictor := trend.NewPredictor(periods).WithLogger(logger.Get())

	var res *trend.Result
	switch {
	case input != "":
		records, err := loader.Load(input)
		if err != nil {
			return err
		}
		res = predictor.Analyze(records)

	case days > 0:
		db, err := database.New(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
		observations, err := news.NewRepository(db.DB()).GetSentimentObservations(context.Background(), since)
		if err != nil {
			return err
		}

		obs := make([]trend.Observation, len(observations))
		for i, o := range observations {
			obs[i] = trend.Observation{Timestamp: o.PublishedAt, Score: o.Score}
		}
		res = predictor.AnalyzeObservations(obs)

	default:
		return fmt.Errorf("either an input file or --days is required")
	}

	sidecar := trend.NewSidecar(cfg.Trend.SidecarPath)
	if err := sidecar.Save(res); err != nil {
		return err
	}

	summary := trend.Summarize(res)
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if res.Failed() {
		os.Exit(1)
	}

	return nil
}

// runReport renders the trend report from the persisted sidecar
func runReport(out string) error {
	defer logger.Sync()

	sidecar := trend.NewSidecar(cfg.Trend.SidecarPath)
	res, err := sidecar.Load()
	if err != nil {
		return fmt.Errorf("no persisted analysis found: %w", err)
	}

	tm, err := templates.NewManager(cfg.Trend.TemplatesDir)
	if err != nil {
		return err
	}

	gen := reports.NewGenerator(tm)

	if out != "" {
		return gen.WriteFile(out, res, nil)
	}

	report, err := gen.Render(res, nil)
	if err != nil {
		return err
	}

	fmt.Println(report)
	return nil
}

// runService wires the full service: providers, storage, workers, HTTP
func runService() error {
	defer logger.Sync()

	if err := cfg.ValidateService(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("received interrupt signal, shutting down...")
		cancel()
	}()

	// Postgres
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.Conn(), "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Sentiment scoring
	ensemble := sentiment.NewEnsemble().Add(sentiment.NewAnalyzer(), 1.0)

	// News providers
	providers := make([]news.Provider, 0, 2)

	if cfg.News.RSSEnabled {
		feeds, err := news.LoadFeeds(cfg.News.FeedsFile)
		if err != nil {
			return fmt.Errorf("failed to load feeds: %w", err)
		}
		providers = append(providers, news.NewRSSProvider(true, feeds))
	}

	providers = append(providers, news.NewSearchProvider(
		cfg.News.SearchEnabled, cfg.News.SearchAPIKey, cfg.News.SearchBaseURL))

	aggregator := news.NewAggregator(providers, ensemble, cfg.News.Keywords)
	newsRepo := news.NewRepository(db.DB())

	// Trend pipeline
	predictor := trend.NewPredictor(cfg.Trend.ForecastPeriods).WithLogger(logger.Get())
	sidecar := trend.NewSidecar(cfg.Trend.SidecarPath)

	trendWorker := workers.NewTrendWorker(newsRepo, predictor, sidecar, &cfg.Trend)

	// Optional: distributed run lock
	var redisClient *redisAdapter.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisAdapter.New(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()

		trendWorker.WithLock(redisClient.NewRunLock("trend:run", 5*time.Minute))
	}

	// Optional: ClickHouse analytics
	if cfg.ClickHouse.Enabled {
		analytics, err := clickhouse.Connect(&cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("failed to connect to clickhouse: %w", err)
		}
		defer analytics.Close()

		if err := analytics.EnsureSchema(ctx); err != nil {
			return err
		}
		trendWorker.WithAnalytics(analytics)
	}

	// Optional: Telegram alerts
	if cfg.Telegram.BotToken != "" {
		tm, err := templates.NewManager(cfg.Trend.TemplatesDir)
		if err != nil {
			return err
		}

		notifier, err := telegram.NewNotifier(&cfg.Telegram, tm)
		if err != nil {
			return fmt.Errorf("failed to create telegram notifier: %w", err)
		}
		trendWorker.WithNotifier(notifier)
	}

	// HTTP server with websocket push
	hub := server.NewHub()
	srv := server.NewServer(cfg.Server.Addr, db, redisClient, sidecar, hub)
	trendWorker.WithPublisher(srv)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("http server failed",
				zap.Error(err),
			)
			cancel()
		}
	}()

	// Background workers
	group := worker.NewGroup(ctx)
	if cfg.News.Enabled {
		group.Add(workers.NewNewsWorker(aggregator, newsRepo, &cfg.News), cfg.News.FetchInterval)
	}
	group.Add(trendWorker, cfg.Trend.Interval)
	group.Start()

	srv.SetReady(true)
	logger.Info("marketpulse service started",
		zap.String("addr", cfg.Server.Addr),
		zap.Int("news_providers", len(providers)),
	)

	<-ctx.Done()

	srv.SetReady(false)
	group.Stop(30 * time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("http server shutdown failed",
			zap.Error(err),
		)
	}

	logger.Info("marketpulse service stopped")
	return nil
}
