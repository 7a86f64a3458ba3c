package trend

import (
	"math"
	"testing"
	"time"
)

func linearSeries(start time.Time, n int, slope, intercept float64) DailySeries {
	series := make(DailySeries, n)
	for i := 0; i < n; i++ {
		series[i] = DailyPoint{
			Date:  start.AddDate(0, 0, i),
			Value: intercept + slope*float64(i),
		}
	}
	return series
}

func TestFitBaseline_TooFewPoints(t *testing.T) {
	if _, err := FitBaseline(nil); err == nil {
		t.Error("Expected error for empty series")
	}

	one := DailySeries{{Date: day(2024, 1, 1), Value: 0.5}}
	if _, err := FitBaseline(one); err == nil {
		t.Error("Expected error for single-point series")
	}
}

func TestFitBaseline_ExactLinearExtrapolation(t *testing.T) {
	// y = 2x + 1, zero residuals, so the margin is the 0.1 floor
	series := linearSeries(day(2024, 1, 1), 5, 2, 1)

	model, err := FitBaseline(series)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if model.Type() != ModelBaseline {
		t.Errorf("Expected model type %q, got %q", ModelBaseline, model.Type())
	}

	forecast := model.Forecast(3)
	if len(forecast) != 8 {
		t.Fatalf("Expected 5 fitted + 3 future points, got %d", len(forecast))
	}

	// First future day continues the line: index 5, y = 11
	future := forecast[5]
	if math.Abs(future.Point-11) > 1e-6 {
		t.Errorf("Expected extrapolated value 11, got %.6f", future.Point)
	}
	if math.Abs(future.Lower-10.9) > 1e-6 || math.Abs(future.Upper-11.1) > 1e-6 {
		t.Errorf("Expected floor margin 0.1, got [%.6f, %.6f]", future.Lower, future.Upper)
	}
	if !future.Date.Equal(day(2024, 1, 6)) {
		t.Errorf("Expected first future date 2024-01-06, got %v", future.Date)
	}
}

func TestBaselineForecast_BoundOrdering(t *testing.T) {
	series := DailySeries{
		{Date: day(2024, 2, 1), Value: 0.1},
		{Date: day(2024, 2, 2), Value: -0.3},
		{Date: day(2024, 2, 3), Value: 0.4},
		{Date: day(2024, 2, 4), Value: 0.0},
		{Date: day(2024, 2, 5), Value: 0.2},
	}

	model, err := FitBaseline(series)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for i, p := range model.Forecast(10) {
		if p.Lower > p.Point || p.Point > p.Upper {
			t.Errorf("Point %d violates lower <= point <= upper: %+v", i, p)
		}
		if width := p.Upper - p.Lower; width < 0.2-1e-9 {
			t.Errorf("Point %d interval width %.6f below the 0.2 floor", i, width)
		}
	}
}

func TestBaselineForecast_ConstantMargin(t *testing.T) {
	series := DailySeries{
		{Date: day(2024, 3, 1), Value: 0.0},
		{Date: day(2024, 3, 2), Value: 0.5},
		{Date: day(2024, 3, 3), Value: 0.1},
	}

	model, err := FitBaseline(series)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	forecast := model.Forecast(5)
	width := forecast[0].Upper - forecast[0].Lower
	for i, p := range forecast {
		if math.Abs((p.Upper-p.Lower)-width) > 1e-9 {
			t.Errorf("Point %d width %.6f differs from %.6f; margin must be constant", i, p.Upper-p.Lower, width)
		}
	}
}
