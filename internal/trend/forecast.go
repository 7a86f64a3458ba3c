package trend

import "time"

// ModelType tags which forecaster produced a result
type ModelType string

const (
	// ModelSeasonal is the primary seasonal decomposition model
	ModelSeasonal ModelType = "seasonal"
	// ModelBaseline is the linear-regression fallback model
	ModelBaseline ModelType = "baseline"
)

// ForecastPoint is one forecasted day with its uncertainty interval.
// Invariant: Lower <= Point <= Upper.
type ForecastPoint struct {
	Date  time.Time
	Point float64
	Lower float64
	Upper float64
}

// Forecaster is a fitted model able to extend the series beyond its last
// observed date. Forecast returns the reconstructed historical fit followed
// by horizon future points, so consumers need not special-case the model.
type Forecaster interface {
	Forecast(horizon int) []ForecastPoint
	Type() ModelType
}
