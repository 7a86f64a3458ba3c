package trend

import (
	"math"
	"testing"
	"time"
)

func TestFitSeasonal_MinimumPoints(t *testing.T) {
	short := linearSeries(day(2024, 1, 1), 6, 0.01, 0)
	if _, err := FitSeasonal(short); err == nil {
		t.Error("Expected error for series shorter than 7 points")
	}

	exact := linearSeries(day(2024, 1, 1), 7, 0.01, 0)
	model, err := FitSeasonal(exact)
	if err != nil {
		t.Fatalf("Expected fit to succeed at 7 points: %v", err)
	}
	if model.Type() != ModelSeasonal {
		t.Errorf("Expected model type %q, got %q", ModelSeasonal, model.Type())
	}
}

func TestSeasonalForecast_LengthAndDates(t *testing.T) {
	series := linearSeries(day(2024, 5, 1), 10, 0.02, 0.1)

	model, err := FitSeasonal(series)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	forecast := model.Forecast(30)
	if len(forecast) != 40 {
		t.Fatalf("Expected 10 fitted + 30 future points, got %d", len(forecast))
	}

	last := series.Last().Date
	for k := 1; k <= 30; k++ {
		got := forecast[9+k].Date
		want := last.AddDate(0, 0, k)
		if !got.Equal(want) {
			t.Fatalf("Future point %d: expected date %v, got %v", k, want, got)
		}
	}
}

func TestSeasonalForecast_BoundOrdering(t *testing.T) {
	start := day(2024, 1, 1)
	series := make(DailySeries, 21)
	for i := range series {
		date := start.AddDate(0, 0, i)
		// Weekday-shaped noise on top of a slow rise
		v := 0.01*float64(i) + 0.05*float64(int(date.Weekday()))/6.0
		series[i] = DailyPoint{Date: date, Value: v}
	}

	model, err := FitSeasonal(series)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for i, p := range model.Forecast(14) {
		if p.Lower > p.Point || p.Point > p.Upper {
			t.Errorf("Point %d violates lower <= point <= upper: %+v", i, p)
		}
		if width := p.Upper - p.Lower; width < 0.2-1e-9 {
			t.Errorf("Point %d interval width %.6f below the 0.2 floor", i, width)
		}
	}
}

func TestSeasonalForecast_ShortSeriesSkipsWeekly(t *testing.T) {
	// Below 14 days of span the model is pure trend: a perfectly linear
	// series must extrapolate exactly along the line
	series := linearSeries(day(2024, 7, 1), 10, 0.05, -0.1)

	model, err := FitSeasonal(series)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	forecast := model.Forecast(5)
	for k := 1; k <= 5; k++ {
		want := -0.1 + 0.05*float64(9+k)
		got := forecast[9+k].Point
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("Future point %d: expected %.6f on the trend line, got %.6f", k, want, got)
		}
	}
}

func TestSeasonalForecast_WeeklyComponentRepeats(t *testing.T) {
	start := day(2024, 1, 1)
	series := make(DailySeries, 28)
	for i := range series {
		date := start.AddDate(0, 0, i)
		v := 0.3
		if date.Weekday() == time.Monday {
			v = -0.3
		}
		series[i] = DailyPoint{Date: date, Value: v}
	}

	model, err := FitSeasonal(series)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	forecast := model.Forecast(14)
	future := forecast[28:]

	var monday, other float64
	var mondays, others int
	for _, p := range future {
		if p.Date.Weekday() == time.Monday {
			monday += p.Point
			mondays++
		} else {
			other += p.Point
			others++
		}
	}

	if mondays == 0 || others == 0 {
		t.Fatal("Two forecast weeks must contain both Mondays and other days")
	}
	if monday/float64(mondays) >= other/float64(others) {
		t.Error("Forecast should keep Mondays below other weekdays")
	}
}
