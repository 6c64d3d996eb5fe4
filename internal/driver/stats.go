package driver

import (
	"fmt"
	"math"
	"time"
)

// Stats accumulates per-epoch measurements and reports their mean and
// sample standard deviation at the end of a run.
type Stats struct {
	processing []time.Duration
	period     []time.Duration
	trades     []int
	adds       []int
	cancels    []int
}

// Record appends one completed epoch's measurements.
func (s *Stats) Record(processing, period time.Duration, trades, adds, cancels int) {
	s.processing = append(s.processing, processing)
	s.period = append(s.period, period)
	s.trades = append(s.trades, trades)
	s.adds = append(s.adds, adds)
	s.cancels = append(s.cancels, cancels)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

func durationsToMillis(ds []time.Duration) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = float64(d.Microseconds()) / 1000.0
	}
	return out
}

func intsToFloats(is []int) []float64 {
	out := make([]float64, len(is))
	for i, v := range is {
		out[i] = float64(v)
	}
	return out
}

// String renders the end-of-run summary: mean/stddev of processing
// time, period time, and trades/adds/cancels per period.
func (s *Stats) String() string {
	processing := durationsToMillis(s.processing)
	period := durationsToMillis(s.period)
	trades := intsToFloats(s.trades)
	adds := intsToFloats(s.adds)
	cancels := intsToFloats(s.cancels)

	return fmt.Sprintf(
		"Processing time: mean %.3fms dev %.3f\n"+
			"Period time including processing: mean %.3fms dev %.3f\n"+
			"Number of trades per period: mean %.1f dev %.1f\n"+
			"Number of add orders per period: mean %.1f dev %.1f\n"+
			"Number of cancelled orders per period: mean %.1f dev %.1f\n",
		mean(processing), stddev(processing),
		mean(period), stddev(period),
		mean(trades), stddev(trades),
		mean(adds), stddev(adds),
		mean(cancels), stddev(cancels),
	)
}
