package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/selivandex/marketpulse/internal/trend"
)

// Load reads scored sentiment records from a JSON or CSV file, picking the
// format from the extension
func Load(path string) ([]trend.ScoredRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .json or .csv)", filepath.Ext(path))
	}
}

// jsonRecord accepts the common field spellings seen in exported datasets
type jsonRecord struct {
	PublishTime    string   `json:"publish_time"`
	PublishedAt    string   `json:"published_at"`
	Date           string   `json:"date"`
	SentimentScore *float64 `json:"sentiment_score"`
	Sentiment      *float64 `json:"sentiment"`
	Score          *float64 `json:"score"`
}

func (r jsonRecord) toScored() trend.ScoredRecord {
	rec := trend.ScoredRecord{PublishTime: r.PublishTime}
	if rec.PublishTime == "" {
		rec.PublishTime = r.PublishedAt
	}
	if rec.PublishTime == "" {
		rec.PublishTime = r.Date
	}

	switch {
	case r.SentimentScore != nil:
		rec.SentimentScore = *r.SentimentScore
	case r.Sentiment != nil:
		rec.SentimentScore = *r.Sentiment
	case r.Score != nil:
		rec.SentimentScore = *r.Score
	}

	return rec
}

// LoadJSON reads a JSON array of scored records
func LoadJSON(path string) ([]trend.ScoredRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	records := make([]trend.ScoredRecord, len(raw))
	for i, r := range raw {
		records[i] = r.toScored()
	}

	return records, nil
}

// LoadCSV reads a CSV file with a header row. Recognized time columns:
// publish_time, published_at, date. Recognized score columns:
// sentiment_score, sentiment, score.
func LoadCSV(path string) ([]trend.ScoredRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	timeIdx, scoreIdx := -1, -1
	for i, col := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "publish_time", "published_at", "date":
			if timeIdx < 0 {
				timeIdx = i
			}
		case "sentiment_score", "sentiment", "score":
			if scoreIdx < 0 {
				scoreIdx = i
			}
		}
	}

	if timeIdx < 0 || scoreIdx < 0 {
		return nil, fmt.Errorf("%s is missing time or score column", path)
	}

	records := make([]trend.ScoredRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if timeIdx >= len(row) || scoreIdx >= len(row) {
			continue
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid score %q", path, n+2, row[scoreIdx])
		}

		records = append(records, trend.ScoredRecord{
			PublishTime:    strings.TrimSpace(row[timeIdx]),
			SentimentScore: score,
		})
	}

	return records, nil
}
