package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/cinar/indicator"
)

const (
	// seasonalMinPoints gates the seasonal model; shorter series fall back
	// to the baseline
	seasonalMinPoints = 7
	// weeklySpanDays is the minimum span before the weekly component
	// engages; below it the model degrades to trend plus residual bands
	weeklySpanDays = 14
)

// seasonalModel is an additive decomposition: linear trend plus a weekly
// periodic component estimated from detrended weekday means. The weekly
// component is shrunk toward zero on short series so a week or two of noisy
// sentiment does not imprint a spurious cycle.
type seasonalModel struct {
	series      DailySeries
	slope       float64
	intercept   float64
	weekday     [7]float64
	hasWeekly   bool
	residualStd float64
}

// FitSeasonal fits the primary forecaster. Fit errors are recoverable by
// design: the caller is expected to fall back to the baseline model.
func FitSeasonal(series DailySeries) (Forecaster, error) {
	if len(series) < seasonalMinPoints {
		return nil, fmt.Errorf("seasonal model requires at least %d daily points, got %d", seasonalMinPoints, len(series))
	}

	x := make([]float64, len(series))
	for i := range x {
		x[i] = float64(i)
	}
	y := series.Values()

	slope, intercept := indicator.LeastSquare(x, y)
	if !isFinite(slope) || !isFinite(intercept) {
		return nil, fmt.Errorf("trend fit degenerate: slope=%v intercept=%v", slope, intercept)
	}

	detrended := make([]float64, len(y))
	for i, v := range y {
		detrended[i] = v - (intercept + slope*float64(i))
	}

	m := &seasonalModel{series: series, slope: slope, intercept: intercept}

	if len(series) >= weeklySpanDays {
		m.weekday = weekdayComponent(series, detrended)
		m.hasWeekly = true
	}

	var sumSq float64
	for i, p := range series {
		resid := detrended[i]
		if m.hasWeekly {
			resid -= m.weekday[int(p.Date.Weekday())]
		}
		sumSq += resid * resid
	}
	m.residualStd = math.Sqrt(sumSq / float64(len(y)))
	if !isFinite(m.residualStd) {
		return nil, fmt.Errorf("residual variance degenerate")
	}

	return m, nil
}

// weekdayComponent averages detrended residuals per weekday, centers them to
// zero mean and shrinks them by the number of observed weeks so sparse
// weekday samples carry less weight
func weekdayComponent(series DailySeries, detrended []float64) [7]float64 {
	var sums, counts [7]float64
	for i, p := range series {
		wd := int(p.Date.Weekday())
		sums[wd] += detrended[i]
		counts[wd]++
	}

	var component [7]float64
	var total float64
	var present int
	for wd := range component {
		if counts[wd] > 0 {
			component[wd] = sums[wd] / counts[wd]
			total += component[wd]
			present++
		}
	}

	if present == 0 {
		return component
	}

	mean := total / float64(present)
	weeks := float64(len(series)) / 7.0
	shrink := weeks / (weeks + 1)
	for wd := range component {
		component[wd] = (component[wd] - mean) * shrink
	}

	return component
}

func (m *seasonalModel) Type() ModelType {
	return ModelSeasonal
}

// Forecast returns the fitted history followed by horizon future days.
// Bounds come from the in-sample residual spread with the same floor as the
// baseline model, so intervals never collapse to zero width.
func (m *seasonalModel) Forecast(horizon int) []ForecastPoint {
	margin := math.Max(1.96*m.residualStd, marginFloor)

	n := len(m.series)
	points := make([]ForecastPoint, 0, n+horizon)

	for i, p := range m.series {
		points = append(points, m.pointAt(p.Date, float64(i), margin))
	}

	last := m.series.Last().Date
	for k := 1; k <= horizon; k++ {
		points = append(points, m.pointAt(last.AddDate(0, 0, k), float64(n+k-1), margin))
	}

	return points
}

func (m *seasonalModel) pointAt(date time.Time, idx, margin float64) ForecastPoint {
	point := m.intercept + m.slope*idx
	if m.hasWeekly {
		point += m.weekday[int(date.Weekday())]
	}

	return ForecastPoint{
		Date:  date,
		Point: point,
		Lower: point - margin,
		Upper: point + margin,
	}
}
