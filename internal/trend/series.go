package trend

import (
	"sort"
	"time"
)

// DailyPoint is one value on the daily sentiment grid
type DailyPoint struct {
	Date  time.Time
	Value float64
}

// DailySeries is a dense daily time series: dates are unique, sorted
// ascending and cover every calendar day between the first and last point
type DailySeries []DailyPoint

// Aggregate groups observations by calendar day (UTC, time of day
// discarded), averages same-day scores and resamples to a dense daily grid.
// Interior gaps are linearly interpolated between the nearest known
// neighbors; a gap at either edge of the range would carry the nearest known
// value, so the grid never extrapolates beyond observed dates. Empty input
// yields an empty series.
func Aggregate(obs []Observation) DailySeries {
	if len(obs) == 0 {
		return nil
	}

	type bucket struct {
		sum   float64
		count int
	}

	buckets := make(map[time.Time]*bucket)
	for _, o := range obs {
		day := dayOf(o.Timestamp)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += o.Score
		b.count++
	}

	sparse := make(DailySeries, 0, len(buckets))
	for day, b := range buckets {
		sparse = append(sparse, DailyPoint{Date: day, Value: b.sum / float64(b.count)})
	}
	sort.Slice(sparse, func(i, j int) bool { return sparse[i].Date.Before(sparse[j].Date) })

	return resample(sparse)
}

// resample fills every missing calendar day between consecutive known points
// with a linearly interpolated value
func resample(sparse DailySeries) DailySeries {
	if len(sparse) < 2 {
		return sparse
	}

	dense := make(DailySeries, 0, len(sparse))
	for i := 0; i < len(sparse)-1; i++ {
		cur, next := sparse[i], sparse[i+1]
		dense = append(dense, cur)

		gap := daysBetween(cur.Date, next.Date)
		for d := 1; d < gap; d++ {
			frac := float64(d) / float64(gap)
			dense = append(dense, DailyPoint{
				Date:  cur.Date.AddDate(0, 0, d),
				Value: cur.Value + (next.Value-cur.Value)*frac,
			})
		}
	}
	dense = append(dense, sparse[len(sparse)-1])

	return dense
}

// Values returns the series values in date order
func (s DailySeries) Values() []float64 {
	vals := make([]float64, len(s))
	for i, p := range s {
		vals[i] = p.Value
	}
	return vals
}

// Last returns the most recent point; zero value for an empty series
func (s DailySeries) Last() DailyPoint {
	if len(s) == 0 {
		return DailyPoint{}
	}
	return s[len(s)-1]
}

func dayOf(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
