package models

import "time"

// SentimentObservation is a single timestamped sentiment score, the unit
// the trend engine consumes
type SentimentObservation struct {
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	Score       float64   `json:"sentiment_score" db:"sentiment"`
}

// SentimentVerdict is the blended output of the scoring ensemble
type SentimentVerdict struct {
	Label      string  `json:"label"` // positive, negative, neutral
	Score      float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// LabelForScore maps a sentiment score to its categorical label
func LabelForScore(score float64) string {
	switch {
	case score > 0.1:
		return "positive"
	case score < -0.1:
		return "negative"
	default:
		return "neutral"
	}
}
