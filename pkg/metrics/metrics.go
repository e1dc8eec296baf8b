package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fyerfyer/podem-atpg/pkg/algorithm"
)

const (
	OutcomeLabel = "outcome"
	ReasonLabel  = "reason"
)

// Collector exports campaign accounting. It implements algorithm.Observer.
type Collector struct {
	Registry *prometheus.Registry

	faultsTotal      *prometheus.CounterVec
	simulationsTotal prometheus.Counter
	decisionsTotal   prometheus.Counter
	backtracksTotal  prometheus.Counter
	searchDuration   *prometheus.HistogramVec
	coverage         prometheus.Gauge
	efficiency       prometheus.Gauge
}

// NewCollector creates the metrics and registers them on a fresh registry
func NewCollector() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),

		faultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atpg_faults_total",
				Help: "Faults targeted, by outcome and failure reason",
			},
			[]string{OutcomeLabel, ReasonLabel},
		),
		simulationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "atpg_simulations_total",
				Help: "Full-graph simulations run by the search",
			},
		),
		decisionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "atpg_decisions_total",
				Help: "Tentative primary input assignments during sensitization",
			},
		),
		backtracksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "atpg_backtracks_total",
				Help: "Rejected branches and abandoned candidates",
			},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "atpg_search_duration_seconds",
				Help:    "Duration of one fault search",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{OutcomeLabel},
		),
		coverage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "atpg_fault_coverage_ratio",
				Help: "Detected faults over all targeted faults",
			},
		),
		efficiency: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "atpg_test_efficiency_ratio",
				Help: "Detected plus confirmed untestable faults over all targeted faults",
			},
		),
	}

	c.Registry.MustRegister(
		c.faultsTotal,
		c.simulationsTotal,
		c.decisionsTotal,
		c.backtracksTotal,
		c.searchDuration,
		c.coverage,
		c.efficiency,
	)
	return c
}

// ObserveResult records one finished fault search
func (c *Collector) ObserveResult(r *algorithm.Result) {
	outcome := r.Outcome.String()
	c.faultsTotal.WithLabelValues(outcome, r.Reason.String()).Inc()
	c.simulationsTotal.Add(float64(r.Stats.Simulations))
	c.decisionsTotal.Add(float64(r.Stats.Decisions))
	c.backtracksTotal.Add(float64(r.Stats.Backtracks))
	c.searchDuration.WithLabelValues(outcome).Observe(r.Stats.Elapsed.Seconds())
}

// ObserveReport records the coverage ratios of a finished campaign
func (c *Collector) ObserveReport(rep *algorithm.Report) {
	c.coverage.Set(rep.Coverage())
	c.efficiency.Set(rep.Efficiency())
}

// WriteTextfile dumps the registry in the text exposition format, for
// node_exporter's textfile collector or CI artifacts
func (c *Collector) WriteTextfile(path string) error {
	return errors.Wrap(prometheus.WriteToTextfile(path, c.Registry), "writing metrics")
}
