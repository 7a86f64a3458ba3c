package trend

import (
	"strings"
	"time"
)

// ScoredRecord is the loose input contract from the sentiment scoring
// collaborator: a publish time string and a blended score. Scores are
// expected to already be in [-1, 1]; the normalizer does not clamp.
type ScoredRecord struct {
	PublishTime    string  `json:"publish_time"`
	SentimentScore float64 `json:"sentiment_score"`
}

// Observation is a typed, timestamped sentiment score
type Observation struct {
	Timestamp time.Time
	Score     float64
}

const dateLayout = "2006-01-02"

// Normalize converts raw scored records into observations. Publish times are
// parsed from their YYYY-MM-DD prefix; a record with a missing or malformed
// timestamp gets the supplied processing time instead of failing the batch.
func Normalize(records []ScoredRecord, now time.Time) []Observation {
	obs := make([]Observation, 0, len(records))

	for _, rec := range records {
		ts := parsePublishTime(rec.PublishTime, now)
		obs = append(obs, Observation{Timestamp: ts, Score: rec.SentimentScore})
	}

	return obs
}

func parsePublishTime(raw string, fallback time.Time) time.Time {
	s := strings.TrimSpace(raw)
	if len(s) < len(dateLayout) {
		return fallback
	}

	ts, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return fallback
	}

	return ts
}
