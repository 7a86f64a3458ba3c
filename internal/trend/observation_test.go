package trend

import (
	"testing"
	"time"
)

func TestNormalize_DatePrefix(t *testing.T) {
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{
			name:     "iso timestamp",
			raw:      "2024-03-05T10:30:00Z",
			expected: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "plain date",
			raw:      "2024-03-05",
			expected: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "date with trailing text",
			raw:      "2024-12-31 23:59:59",
			expected: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "empty falls back to now",
			raw:      "",
			expected: now,
		},
		{
			name:     "garbage falls back to now",
			raw:      "not a timestamp",
			expected: now,
		},
		{
			name:     "too short falls back to now",
			raw:      "2024-03",
			expected: now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := Normalize([]ScoredRecord{{PublishTime: tt.raw, SentimentScore: 0.5}}, now)

			if len(obs) != 1 {
				t.Fatalf("Expected 1 observation, got %d", len(obs))
			}
			if !obs[0].Timestamp.Equal(tt.expected) {
				t.Errorf("Expected timestamp %v, got %v", tt.expected, obs[0].Timestamp)
			}
			if obs[0].Score != 0.5 {
				t.Errorf("Score should pass through unchanged, got %v", obs[0].Score)
			}
		})
	}
}

func TestNormalize_KeepsAllRecords(t *testing.T) {
	now := time.Now().UTC()

	records := []ScoredRecord{
		{PublishTime: "2024-01-01", SentimentScore: 0.1},
		{PublishTime: "bad", SentimentScore: -0.2},
		{PublishTime: "2024-01-03", SentimentScore: 0.3},
	}

	obs := Normalize(records, now)

	if len(obs) != len(records) {
		t.Fatalf("Malformed timestamps must not drop records: expected %d, got %d", len(records), len(obs))
	}
}
