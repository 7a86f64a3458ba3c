package sentiment

import (
	"math"
	"testing"
)

type fixedScorer struct {
	name  string
	score float64
}

func (f fixedScorer) Name() string { return f.name }

func (f fixedScorer) AnalyzeSentiment(text string) float64 { return f.score }

func TestEnsemble_WeightedMean(t *testing.T) {
	e := NewEnsemble().
		Add(fixedScorer{name: "a", score: 0.6}, 3.0).
		Add(fixedScorer{name: "b", score: 0.2}, 1.0)

	verdict := e.Analyze("some title", "some summary")

	// (0.6*3 + 0.2*1) / 4 = 0.5
	if math.Abs(verdict.Score-0.5) > 1e-9 {
		t.Errorf("Expected weighted mean 0.5, got %.6f", verdict.Score)
	}
	if verdict.Label != "positive" {
		t.Errorf("Expected positive label, got %s", verdict.Label)
	}
}

func TestEnsemble_SingleScorerConfidence(t *testing.T) {
	e := NewEnsemble().Add(fixedScorer{name: "a", score: 0.3}, 1.0)

	verdict := e.Analyze("title", "")
	if verdict.Confidence != 0.8 {
		t.Errorf("Single scorer should default to 0.8 confidence, got %.3f", verdict.Confidence)
	}
}

func TestEnsemble_AgreementConfidence(t *testing.T) {
	agree := NewEnsemble().
		Add(fixedScorer{name: "a", score: 0.4}, 1.0).
		Add(fixedScorer{name: "b", score: 0.4}, 1.0)

	disagree := NewEnsemble().
		Add(fixedScorer{name: "a", score: 0.9}, 1.0).
		Add(fixedScorer{name: "b", score: -0.9}, 1.0)

	agreeVerdict := agree.Analyze("title", "")
	disagreeVerdict := disagree.Analyze("title", "")

	if agreeVerdict.Confidence != 1.0 {
		t.Errorf("Identical scores should give confidence 1.0, got %.3f", agreeVerdict.Confidence)
	}
	if disagreeVerdict.Confidence >= agreeVerdict.Confidence {
		t.Errorf("Disagreement must lower confidence: %.3f vs %.3f",
			disagreeVerdict.Confidence, agreeVerdict.Confidence)
	}
}

func TestEnsemble_LabelThresholds(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{score: 0.5, expected: "positive"},
		{score: 0.11, expected: "positive"},
		{score: 0.1, expected: "neutral"},
		{score: 0.0, expected: "neutral"},
		{score: -0.1, expected: "neutral"},
		{score: -0.11, expected: "negative"},
		{score: -0.5, expected: "negative"},
	}

	for _, tt := range tests {
		e := NewEnsemble().Add(fixedScorer{name: "a", score: tt.score}, 1.0)
		verdict := e.Analyze("title", "")
		if verdict.Label != tt.expected {
			t.Errorf("Score %.2f: expected %s, got %s", tt.score, tt.expected, verdict.Label)
		}
	}
}

func TestEnsemble_EmptyInput(t *testing.T) {
	e := NewEnsemble().Add(fixedScorer{name: "a", score: 0.9}, 1.0)

	verdict := e.Analyze("", "   ")
	if verdict.Score != 0 || verdict.Label != "neutral" {
		t.Errorf("Empty text should score neutral zero, got %+v", verdict)
	}
}

func TestEnsemble_NoScorers(t *testing.T) {
	verdict := NewEnsemble().Analyze("title", "summary")
	if verdict.Score != 0 || verdict.Label != "neutral" {
		t.Errorf("Empty ensemble should score neutral zero, got %+v", verdict)
	}
}
