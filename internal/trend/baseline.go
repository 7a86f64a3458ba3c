package trend

import (
	"fmt"
	"math"

	"github.com/cinar/indicator"
)

// marginFloor keeps uncertainty intervals from collapsing to zero width on
// perfectly linear or two-point series, which would read as false certainty
const marginFloor = 0.1

// baselineModel is an ordinary least squares linear trend with
// Gaussian-residual confidence bands. It is the deterministic fallback used
// when the seasonal model cannot be fit.
type baselineModel struct {
	series      DailySeries
	slope       float64
	intercept   float64
	residualStd float64
}

// FitBaseline fits the linear fallback model. It needs at least two daily
// points; anything less is a terminal condition for the whole analysis.
func FitBaseline(series DailySeries) (Forecaster, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("baseline model requires at least 2 daily points, got %d", len(series))
	}

	x := make([]float64, len(series))
	for i := range x {
		x[i] = float64(i)
	}
	y := series.Values()

	slope, intercept := indicator.LeastSquare(x, y)
	if !isFinite(slope) || !isFinite(intercept) {
		return nil, fmt.Errorf("baseline fit degenerate: slope=%v intercept=%v", slope, intercept)
	}

	var sumSq float64
	for i, v := range y {
		resid := v - (intercept + slope*float64(i))
		sumSq += resid * resid
	}
	residualStd := math.Sqrt(sumSq / float64(len(y)))

	return &baselineModel{
		series:      series,
		slope:       slope,
		intercept:   intercept,
		residualStd: residualStd,
	}, nil
}

func (m *baselineModel) Type() ModelType {
	return ModelBaseline
}

// Forecast returns the reconstructed historical fit followed by horizon
// future days extrapolated along the fitted line
func (m *baselineModel) Forecast(horizon int) []ForecastPoint {
	margin := math.Max(1.96*m.residualStd, marginFloor)

	n := len(m.series)
	points := make([]ForecastPoint, 0, n+horizon)

	for i, p := range m.series {
		fitted := m.intercept + m.slope*float64(i)
		points = append(points, ForecastPoint{
			Date:  p.Date,
			Point: fitted,
			Lower: fitted - margin,
			Upper: fitted + margin,
		})
	}

	last := m.series.Last().Date
	for k := 1; k <= horizon; k++ {
		point := m.intercept + m.slope*float64(n+k-1)
		points = append(points, ForecastPoint{
			Date:  last.AddDate(0, 0, k),
			Point: point,
			Lower: point - margin,
			Upper: point + margin,
		})
	}

	return points
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
