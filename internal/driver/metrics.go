package driver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marketcore/callauction/internal/engine"
)

// Metrics exposes the driver's informational per-epoch surface as
// Prometheus collectors. Nothing in the engine core depends on these.
type Metrics struct {
	EpochsTotal      prometheus.Counter
	TradesTotal      prometheus.Counter
	VolumeTotal      prometheus.Counter
	ClearingRate     prometheus.Gauge
	ProcessingMicros prometheus.Histogram
	OpenBids         prometheus.Gauge
	OpenAsks         prometheus.Gauge
}

// NewMetrics builds and registers the driver's collectors against reg.
// Pass prometheus.NewRegistry() in tests to avoid polluting the global
// default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EpochsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "callauction_epochs_total",
			Help: "Total number of completed auction epochs.",
		}),
		TradesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "callauction_trades_total",
			Help: "Total number of trades produced across all epochs.",
		}),
		VolumeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "callauction_traded_volume_total",
			Help: "Total traded volume across all epochs.",
		}),
		ClearingRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "callauction_clearing_rate",
			Help: "Clearing rate of the most recent auction epoch.",
		}),
		ProcessingMicros: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "callauction_processing_micros",
			Help:    "Microseconds spent flushing, matching and reconciling per epoch.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 16),
		}),
		OpenBids: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "callauction_open_bids",
			Help: "Number of open bid orders after the most recent epoch.",
		}),
		OpenAsks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "callauction_open_asks",
			Help: "Number of open ask orders after the most recent epoch.",
		}),
	}
	reg.MustRegister(
		m.EpochsTotal, m.TradesTotal, m.VolumeTotal, m.ClearingRate,
		m.ProcessingMicros, m.OpenBids, m.OpenAsks,
	)
	return m
}

// Observe records one completed epoch.
func (m *Metrics) Observe(er *engine.EpochResult) {
	m.EpochsTotal.Inc()
	m.TradesTotal.Add(float64(len(er.Match.Trades)))
	m.VolumeTotal.Add(float64(er.Match.TradedVolume))
	if er.Match.TradedRate != nil {
		m.ClearingRate.Set(float64(*er.Match.TradedRate))
	}
	m.ProcessingMicros.Observe(float64(er.ProcessingTime.Microseconds()))
	m.OpenBids.Set(float64(er.Match.OpenBids.Len()))
	m.OpenAsks.Set(float64(er.Match.OpenAsks.Len()))
}
