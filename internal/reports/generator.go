package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/trend"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
	"github.com/selivandex/marketpulse/pkg/templates"
)

// ReportData is the view model for the trend report template
type ReportData struct {
	GeneratedAt    string
	Status         string
	Message        string
	TrendDirection string
	Recommendation string
	ModelType      string
	Confidence     float64
	DataPoints     int
	Horizon        int
	FirstForecast  string
	LastForecast   string
	News           *models.NewsSummary
}

// Generator renders human-readable trend reports
type Generator struct {
	renderer templates.Renderer
}

// NewGenerator creates a report generator
func NewGenerator(renderer templates.Renderer) *Generator {
	return &Generator{renderer: renderer}
}

// Render produces a text report from an analysis result and an optional
// news summary
func (g *Generator) Render(res *trend.Result, news *models.NewsSummary) (string, error) {
	summary := trend.Summarize(res)

	data := ReportData{
		GeneratedAt:    time.Now().UTC().Format("2006-01-02 15:04 MST"),
		Status:         summary.Status,
		Message:        summary.Message,
		TrendDirection: string(summary.TrendDirection),
		Recommendation: summary.Recommendation,
		ModelType:      string(summary.ModelType),
		Confidence:     summary.Confidence,
		DataPoints:     summary.DataPoints,
		Horizon:        summary.ForecastPeriods,
		News:           news,
	}

	if len(res.Predictions) > 0 {
		data.FirstForecast = res.Predictions[0].Date
		data.LastForecast = res.Predictions[len(res.Predictions)-1].Date
	}

	return g.renderer.ExecuteTemplate("trend_report.tmpl", data)
}

// WriteFile renders the report and writes it next to the sidecar output
func (g *Generator) WriteFile(path string, res *trend.Result, news *models.NewsSummary) error {
	report, err := g.Render(res, news)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Info("trend report written",
		zap.String("path", path),
	)

	return nil
}
