package trend

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const defaultForecastPeriods = 30

// Error messages for the two expected terminal outcomes. These are display
// strings, not Go errors: an analysis that cannot proceed still returns a
// well-formed Result.
const (
	errInsufficientData = "insufficient data for trend prediction"
	errModelTraining    = "model training failed"
)

// PredictionPoint is one forecasted future day in wire form
type PredictionPoint struct {
	Date  string  `json:"ds"`
	Yhat  float64 `json:"yhat"`
	Lower float64 `json:"yhat_lower"`
	Upper float64 `json:"yhat_upper"`
}

// HistoricalPoint is one observed (aggregated) day in wire form
type HistoricalPoint struct {
	Date  string  `json:"ds"`
	Value float64 `json:"y"`
}

// Result is the terminal outcome of one trend analysis run. Immutable once
// built; Error is set for the expected insufficient-data and
// training-failure outcomes, in which case no forecast fields are present.
type Result struct {
	Error           string
	DataPoints      int
	ForecastPeriods int
	TrendDirection  Direction
	Confidence      float64
	Predictions     []PredictionPoint
	Historical      []HistoricalPoint
	ModelType       ModelType
	GeneratedAt     time.Time

	// Forecast holds the full fitted-history-plus-future sequence used by
	// the summarizer; it is not serialized.
	Forecast []ForecastPoint
}

// Failed reports whether the analysis ended in a terminal error outcome
func (r *Result) Failed() bool {
	return r.Error != ""
}

type resultWire struct {
	Error           *string           `json:"error,omitempty"`
	DataPoints      int               `json:"data_points"`
	ForecastPeriods *int              `json:"forecast_periods,omitempty"`
	TrendDirection  *Direction        `json:"trend_direction,omitempty"`
	Confidence      *float64          `json:"confidence,omitempty"`
	Predictions     []PredictionPoint `json:"predictions,omitempty"`
	Historical      []HistoricalPoint `json:"historical_data,omitempty"`
	ModelType       *ModelType        `json:"model_type,omitempty"`
	GeneratedAt     *time.Time        `json:"generated_at,omitempty"`
}

// MarshalJSON emits the output contract: error results carry only the error
// message and data point count so consumers can key off the "error" field
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(resultWire{Error: &r.Error, DataPoints: r.DataPoints})
	}

	w := resultWire{
		DataPoints:      r.DataPoints,
		ForecastPeriods: &r.ForecastPeriods,
		TrendDirection:  &r.TrendDirection,
		Confidence:      &r.Confidence,
		Predictions:     r.Predictions,
		Historical:      r.Historical,
		ModelType:       &r.ModelType,
	}
	if !r.GeneratedAt.IsZero() {
		w.GeneratedAt = &r.GeneratedAt
	}

	return json.Marshal(w)
}

// UnmarshalJSON restores a persisted result
func (r *Result) UnmarshalJSON(data []byte) error {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*r = Result{DataPoints: w.DataPoints, Predictions: w.Predictions, Historical: w.Historical}
	if w.Error != nil {
		r.Error = *w.Error
	}
	if w.ForecastPeriods != nil {
		r.ForecastPeriods = *w.ForecastPeriods
	}
	if w.TrendDirection != nil {
		r.TrendDirection = *w.TrendDirection
	}
	if w.Confidence != nil {
		r.Confidence = *w.Confidence
	}
	if w.ModelType != nil {
		r.ModelType = *w.ModelType
	}
	if w.GeneratedAt != nil {
		r.GeneratedAt = *w.GeneratedAt
	}

	return nil
}

// Predictor runs the full trend analysis pipeline: normalize, aggregate,
// fit (seasonal with baseline fallback), forecast, summarize
type Predictor struct {
	periods int
	log     *zap.Logger
}

// NewPredictor creates a predictor with the given forecast horizon in days;
// non-positive values select the default of 30
func NewPredictor(periods int) *Predictor {
	if periods <= 0 {
		periods = defaultForecastPeriods
	}
	return &Predictor{periods: periods, log: zap.NewNop()}
}

// WithLogger attaches a logger for fit diagnostics
func (p *Predictor) WithLogger(log *zap.Logger) *Predictor {
	if log != nil {
		p.log = log
	}
	return p
}

// Analyze normalizes raw scored records and runs the pipeline
func (p *Predictor) Analyze(records []ScoredRecord) *Result {
	return p.AnalyzeObservations(Normalize(records, time.Now().UTC()))
}

// AnalyzeObservations runs the pipeline on typed observations. Expected
// failure states (no data, too few distinct dates, both models unbuildable)
// come back as error results, never as panics or returned Go errors.
func (p *Predictor) AnalyzeObservations(obs []Observation) *Result {
	series := Aggregate(obs)

	if len(series) == 0 {
		return &Result{Error: errInsufficientData, DataPoints: 0}
	}

	model, err := FitSeasonal(series)
	if err != nil {
		p.log.Debug("seasonal fit failed, falling back to baseline",
			zap.Error(err),
			zap.Int("data_points", len(series)),
		)

		model, err = FitBaseline(series)
		if err != nil {
			p.log.Warn("baseline fit failed, trend analysis unavailable",
				zap.Error(err),
				zap.Int("data_points", len(series)),
			)
			return &Result{Error: errModelTraining, DataPoints: len(series)}
		}
	}

	forecast := model.Forecast(p.periods)

	res := &Result{
		DataPoints:      len(series),
		ForecastPeriods: p.periods,
		TrendDirection:  DirectionOf(forecast),
		Confidence:      ConfidenceOf(forecast),
		Predictions:     futurePoints(forecast, p.periods),
		Historical:      historicalPoints(series),
		ModelType:       model.Type(),
		Forecast:        forecast,
	}

	p.log.Info("trend analysis completed",
		zap.Int("data_points", res.DataPoints),
		zap.Int("forecast_periods", res.ForecastPeriods),
		zap.String("model_type", string(res.ModelType)),
		zap.String("trend_direction", string(res.TrendDirection)),
		zap.Float64("confidence", res.Confidence),
	)

	return res
}

// Periods returns the configured forecast horizon
func (p *Predictor) Periods() int {
	return p.periods
}

func futurePoints(forecast []ForecastPoint, periods int) []PredictionPoint {
	if len(forecast) < periods {
		periods = len(forecast)
	}
	tail := forecast[len(forecast)-periods:]

	points := make([]PredictionPoint, len(tail))
	for i, p := range tail {
		points[i] = PredictionPoint{
			Date:  p.Date.Format(dateLayout),
			Yhat:  p.Point,
			Lower: p.Lower,
			Upper: p.Upper,
		}
	}
	return points
}

func historicalPoints(series DailySeries) []HistoricalPoint {
	points := make([]HistoricalPoint, len(series))
	for i, p := range series {
		points[i] = HistoricalPoint{Date: p.Date.Format(dateLayout), Value: p.Value}
	}
	return points
}
