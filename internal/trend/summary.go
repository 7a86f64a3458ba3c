package trend

import (
	"math"

	"github.com/cinar/indicator"
)

// Direction is the categorical near-term slope of the forecast
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

const (
	// directionWindow is how many trailing forecast points feed the slope
	// and confidence calculations
	directionWindow = 7
	// slopeThreshold separates positive/negative from neutral
	slopeThreshold = 0.01
)

// Summary is the human-facing view of an analysis result
type Summary struct {
	Status          string    `json:"status"` // success or error
	TrendDirection  Direction `json:"trend_direction,omitempty"`
	Recommendation  string    `json:"recommendation,omitempty"`
	Message         string    `json:"message,omitempty"`
	ModelType       ModelType `json:"model_type,omitempty"`
	Confidence      float64   `json:"confidence"`
	DataPoints      int       `json:"data_points"`
	ForecastPeriods int       `json:"forecast_periods"`
}

// DirectionOf fits a simple linear regression to the last up-to-7 forecast
// point estimates and maps the slope to a direction. Fewer than 2 points
// cannot carry a slope and read as neutral.
func DirectionOf(points []ForecastPoint) Direction {
	tail := lastN(points, directionWindow)
	if len(tail) < 2 {
		return DirectionNeutral
	}

	x := make([]float64, len(tail))
	y := make([]float64, len(tail))
	for i, p := range tail {
		x[i] = float64(i)
		y[i] = p.Point
	}

	slope, _ := indicator.LeastSquare(x, y)

	switch {
	case slope > slopeThreshold:
		return DirectionPositive
	case slope < -slopeThreshold:
		return DirectionNegative
	default:
		return DirectionNeutral
	}
}

// ConfidenceOf derives a [0,1] score from the average uncertainty interval
// width over the last up-to-7 forecast points: confidence = 1 - width/2,
// clamped. This is a heuristic proxy for band tightness, NOT a statistical
// confidence level; do not read it as one.
func ConfidenceOf(points []ForecastPoint) float64 {
	if len(points) < 2 {
		return 0.0
	}

	tail := lastN(points, directionWindow)
	var widthSum float64
	for _, p := range tail {
		widthSum += p.Upper - p.Lower
	}
	avgWidth := widthSum / float64(len(tail))

	confidence := 1.0 - avgWidth/2.0
	confidence = math.Max(0.0, math.Min(1.0, confidence))

	return math.Round(confidence*1000) / 1000
}

// RecommendationFor returns the fixed recommendation template for a
// direction
func RecommendationFor(d Direction) string {
	switch d {
	case DirectionPositive:
		return "Market sentiment is trending positive; watch for emerging investment opportunities."
	case DirectionNegative:
		return "Market sentiment is trending negative; consider reducing risk exposure."
	default:
		return "Market sentiment is stable; holding and observing is advised."
	}
}

// Summarize derives the display summary from an analysis result
func Summarize(res *Result) Summary {
	if res.Error != "" {
		return Summary{
			Status:     "error",
			Message:    res.Error,
			DataPoints: res.DataPoints,
		}
	}

	return Summary{
		Status:          "success",
		TrendDirection:  res.TrendDirection,
		Confidence:      res.Confidence,
		Recommendation:  RecommendationFor(res.TrendDirection),
		DataPoints:      res.DataPoints,
		ForecastPeriods: res.ForecastPeriods,
		ModelType:       res.ModelType,
	}
}

func lastN(points []ForecastPoint, n int) []ForecastPoint {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
