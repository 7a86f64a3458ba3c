package sentiment

import (
	"math"
	"strings"

	"github.com/selivandex/marketpulse/pkg/models"
)

// Scorer produces a sentiment score in [-1, 1] for a piece of text
type Scorer interface {
	Name() string
	AnalyzeSentiment(text string) float64
}

// Ensemble combines several scorers into one verdict. Weights are relative;
// a zero-weight scorer is skipped.
type Ensemble struct {
	scorers []weightedScorer
}

type weightedScorer struct {
	scorer Scorer
	weight float64
}

// NewEnsemble creates an empty ensemble
func NewEnsemble() *Ensemble {
	return &Ensemble{}
}

// Add registers a scorer with the given weight
func (e *Ensemble) Add(scorer Scorer, weight float64) *Ensemble {
	if weight > 0 {
		e.scorers = append(e.scorers, weightedScorer{scorer: scorer, weight: weight})
	}
	return e
}

// Analyze scores the title and summary together and returns a combined
// verdict. Confidence reflects scorer agreement: tight scores read as high
// confidence, a single scorer defaults to 0.8.
func (e *Ensemble) Analyze(title, summary string) models.SentimentVerdict {
	text := strings.TrimSpace(title + " " + summary)
	if text == "" || len(e.scorers) == 0 {
		return models.SentimentVerdict{Label: models.LabelForScore(0), Score: 0, Confidence: 0}
	}

	scores := make([]float64, len(e.scorers))
	var weighted, totalWeight float64
	for i, ws := range e.scorers {
		scores[i] = ws.scorer.AnalyzeSentiment(text)
		weighted += scores[i] * ws.weight
		totalWeight += ws.weight
	}

	score := weighted / totalWeight

	return models.SentimentVerdict{
		Label:      models.LabelForScore(score),
		Score:      score,
		Confidence: agreementConfidence(scores),
	}
}

// agreementConfidence maps scorer spread to [0,1]: 1 - stddev, clamped.
// With a single scorer there is no spread to measure so confidence is a
// flat 0.8.
func agreementConfidence(scores []float64) float64 {
	if len(scores) < 2 {
		return 0.8
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	var sumSq float64
	for _, s := range scores {
		d := s - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(len(scores)))

	confidence := 1.0 - std
	return math.Max(0.0, math.Min(1.0, confidence))
}
