package trend

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate_SameDayMean(t *testing.T) {
	obs := []Observation{
		{Timestamp: day(2024, 3, 5).Add(9 * time.Hour), Score: 0.2},
		{Timestamp: day(2024, 3, 5).Add(15 * time.Hour), Score: 0.4},
	}

	series := Aggregate(obs)

	if len(series) != 1 {
		t.Fatalf("Expected 1 daily point, got %d", len(series))
	}
	if math.Abs(series[0].Value-0.3) > 1e-9 {
		t.Errorf("Expected same-day mean 0.3, got %.6f", series[0].Value)
	}
	if !series[0].Date.Equal(day(2024, 3, 5)) {
		t.Errorf("Expected date truncated to midnight, got %v", series[0].Date)
	}
}

func TestAggregate_LinearInterpolation(t *testing.T) {
	obs := []Observation{
		{Timestamp: day(2024, 3, 1), Score: 0.1},
		{Timestamp: day(2024, 3, 5), Score: -0.1},
	}

	series := Aggregate(obs)

	if len(series) != 5 {
		t.Fatalf("Expected 5 dense points, got %d", len(series))
	}

	expected := []float64{0.1, 0.05, 0.0, -0.05, -0.1}
	for i, want := range expected {
		if math.Abs(series[i].Value-want) > 1e-9 {
			t.Errorf("Point %d: expected %.4f, got %.6f", i, want, series[i].Value)
		}
	}
}

func TestAggregate_DenseGrid(t *testing.T) {
	obs := []Observation{
		{Timestamp: day(2024, 1, 1), Score: 0.5},
		{Timestamp: day(2024, 1, 10), Score: 0.2},
		{Timestamp: day(2024, 1, 4), Score: -0.3},
	}

	series := Aggregate(obs)

	if len(series) != 10 {
		t.Fatalf("Expected 10 consecutive days, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		gap := series[i].Date.Sub(series[i-1].Date)
		if gap != 24*time.Hour {
			t.Errorf("Grid gap at %d is %v, want 24h", i, gap)
		}
	}
}

func TestAggregate_UnsortedInput(t *testing.T) {
	obs := []Observation{
		{Timestamp: day(2024, 2, 3), Score: 0.3},
		{Timestamp: day(2024, 2, 1), Score: 0.1},
		{Timestamp: day(2024, 2, 2), Score: 0.2},
	}

	series := Aggregate(obs)

	if len(series) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if !series[i].Date.After(series[i-1].Date) {
			t.Errorf("Series not sorted ascending at %d", i)
		}
	}
}

func TestAggregate_SingleDay(t *testing.T) {
	obs := []Observation{
		{Timestamp: day(2024, 6, 1).Add(3 * time.Hour), Score: 0.1},
		{Timestamp: day(2024, 6, 1).Add(20 * time.Hour), Score: 0.3},
	}

	series := Aggregate(obs)

	if len(series) != 1 {
		t.Fatalf("Expected 1 point for single-day input, got %d", len(series))
	}
	if math.Abs(series[0].Value-0.2) > 1e-9 {
		t.Errorf("Expected mean 0.2, got %.6f", series[0].Value)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if series := Aggregate(nil); len(series) != 0 {
		t.Errorf("Expected empty series for empty input, got %d points", len(series))
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	obs := []Observation{
		{Timestamp: day(2024, 4, 1), Score: 0.1},
		{Timestamp: day(2024, 4, 3), Score: 0.4},
		{Timestamp: day(2024, 4, 7), Score: -0.2},
		{Timestamp: day(2024, 4, 3), Score: 0.2},
	}

	first := Aggregate(obs)
	for i := 0; i < 10; i++ {
		again := Aggregate(obs)
		if len(again) != len(first) {
			t.Fatalf("Run %d: length changed from %d to %d", i, len(first), len(again))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("Run %d: point %d changed from %+v to %+v", i, j, first[j], again[j])
			}
		}
	}
}
