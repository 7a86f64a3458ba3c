package sentiment

import (
	"strings"
)

// Analyzer performs dictionary-based sentiment analysis over financial news
// text
type Analyzer struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

// NewAnalyzer creates new sentiment analyzer with the finance dictionary
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positiveWords: buildPositiveWords(),
		negativeWords: buildNegativeWords(),
	}
}

// Name identifies the analyzer within an ensemble
func (a *Analyzer) Name() string {
	return "dictionary"
}

// AnalyzeSentiment analyzes text and returns sentiment score (-1.0 to 1.0)
func (a *Analyzer) AnalyzeSentiment(text string) float64 {
	if text == "" {
		return 0.0
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0.0
	}

	var score float64

	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"()")

		if weight, ok := a.positiveWords[word]; ok {
			score += weight
		}

		if weight, ok := a.negativeWords[word]; ok {
			score -= weight
		}
	}

	normalized := score / float64(len(words))

	if normalized > 1.0 {
		normalized = 1.0
	} else if normalized < -1.0 {
		normalized = -1.0
	}

	return normalized
}

// buildPositiveWords returns positive keywords for financial news
func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		// Price action
		"rally":   0.9,
		"surge":   0.8,
		"soar":    0.8,
		"rebound": 0.7,
		"jump":    0.6,
		"climb":   0.6,
		"gain":    0.6,
		"rise":    0.5,
		"up":      0.4,
		"high":    0.4,
		"record":  0.5,

		// Fundamentals
		"beat":       0.7,
		"beats":      0.7,
		"profit":     0.6,
		"profitable": 0.6,
		"earnings":   0.3,
		"growth":     0.6,
		"expansion":  0.5,
		"upgrade":    0.7,
		"upgraded":   0.7,
		"dividend":   0.4,
		"buyback":    0.5,

		// Sentiment
		"bullish":      1.0,
		"optimistic":   0.6,
		"optimism":     0.6,
		"confident":    0.5,
		"strong":       0.5,
		"robust":       0.5,
		"recovery":     0.6,
		"breakthrough": 0.6,
		"outperform":   0.7,
		"buy":          0.5,
		"boom":         0.7,
		"stimulus":     0.5,
	}
}

// buildNegativeWords returns negative keywords for financial news
func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		// Price action
		"crash":    1.0,
		"plunge":   0.9,
		"plummet":  0.9,
		"tumble":   0.8,
		"slump":    0.7,
		"selloff":  0.8,
		"slide":    0.6,
		"fall":     0.6,
		"drop":     0.6,
		"decline":  0.6,
		"down":     0.4,
		"low":      0.4,
		"collapse": 0.9,

		// Fundamentals
		"miss":       0.7,
		"misses":     0.7,
		"loss":       0.7,
		"losses":     0.7,
		"downgrade":  0.7,
		"downgraded": 0.7,
		"layoffs":    0.7,
		"bankruptcy": 1.0,
		"default":    0.8,
		"writedown":  0.7,
		"shortfall":  0.6,

		// Macro / sentiment
		"bearish":     1.0,
		"recession":   0.9,
		"crisis":      0.8,
		"panic":       0.8,
		"fear":        0.6,
		"inflation":   0.5,
		"stagflation": 0.7,
		"weak":        0.5,
		"fragile":     0.5,
		"uncertainty": 0.5,
		"sell":        0.5,
		"warning":     0.5,
		"fraud":       1.0,
		"lawsuit":     0.6,
		"sanctions":   0.6,
		"tariffs":     0.5,
		"correction":  0.6,
	}
}
