package sentiment

import (
	"testing"
)

func TestAnalyzer_AnalyzeSentiment(t *testing.T) {
	analyzer := NewAnalyzer()

	tests := []struct {
		name     string
		text     string
		expected string // positive, negative, or neutral
	}{
		{
			name:     "bullish text",
			text:     "Stocks rally as earnings beat expectations, strong growth ahead",
			expected: "positive",
		},
		{
			name:     "bearish text",
			text:     "Markets plunge on recession fear, selloff deepens amid panic",
			expected: "negative",
		},
		{
			name:     "neutral text",
			text:     "The committee will meet on Wednesday to discuss policy",
			expected: "neutral",
		},
		{
			name:     "mixed but bullish",
			text:     "Despite inflation worries the rally continues with robust profit growth",
			expected: "positive",
		},
		{
			name:     "empty text",
			text:     "",
			expected: "neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := analyzer.AnalyzeSentiment(tt.text)

			var got string
			if score > 0.02 {
				got = "positive"
			} else if score < -0.02 {
				got = "negative"
			} else {
				got = "neutral"
			}

			if got != tt.expected {
				t.Errorf("Expected %s sentiment, got %s (score: %.3f)",
					tt.expected, got, score)
			}
		})
	}
}

func TestAnalyzer_ScoreRange(t *testing.T) {
	analyzer := NewAnalyzer()

	texts := []string{
		"rally surge soar bullish boom",
		"crash plunge bearish panic fraud",
		"quarterly statement released today",
		"rally rally rally rally rally rally",
	}

	for _, text := range texts {
		score := analyzer.AnalyzeSentiment(text)

		if score < -1.0 || score > 1.0 {
			t.Errorf("Score should be between -1.0 and 1.0, got %.3f for: %s",
				score, text)
		}
	}
}

func TestAnalyzer_PunctuationStripped(t *testing.T) {
	analyzer := NewAnalyzer()

	plain := analyzer.AnalyzeSentiment("markets rally")
	punctuated := analyzer.AnalyzeSentiment("markets rally!")

	if plain <= 0 || punctuated <= 0 {
		t.Errorf("Both forms should score positive, got %.3f and %.3f", plain, punctuated)
	}
}
