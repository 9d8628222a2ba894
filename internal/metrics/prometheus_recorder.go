package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once         sync.Once
	passDuration *prom.HistogramVec
	passResults  *prom.CounterVec
	jobOutcomes  *prom.CounterVec
	sortedLines  prom.Histogram
	probes       *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.passDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "texbuilder",
			Name:      "pass_duration_seconds",
			Help:      "Duration of individual TeX engine passes",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"distro"})
		pr.passResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "texbuilder",
			Name:      "pass_results_total",
			Help:      "TeX engine pass results by outcome",
		}, []string{"distro", "result"})
		pr.jobOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "texbuilder",
			Name:      "job_outcomes_total",
			Help:      "Render job outcomes by final status",
		}, []string{"result"})
		pr.sortedLines = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "texbuilder",
			Name:      "toc_sorted_lines",
			Help:      "Number of sortable lines found in a table of contents file",
			Buckets:   prom.ExponentialBuckets(1, 4, 6),
		})
		pr.probes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "texbuilder",
			Name:      "distro_probes_total",
			Help:      "TeX distribution probes by distro and result",
		}, []string{"distro", "result"})
		reg.MustRegister(pr.passDuration, pr.passResults, pr.jobOutcomes, pr.sortedLines, pr.probes)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePassDuration(distro string, d time.Duration) {
	if p == nil || p.passDuration == nil {
		return
	}
	p.passDuration.WithLabelValues(distro).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPassResult(distro string, result ResultLabel) {
	if p == nil || p.passResults == nil {
		return
	}
	p.passResults.WithLabelValues(distro, string(result)).Inc()
}

func (p *PrometheusRecorder) IncJobOutcome(result ResultLabel) {
	if p == nil || p.jobOutcomes == nil {
		return
	}
	p.jobOutcomes.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveSortedLines(n int) {
	if p == nil || p.sortedLines == nil {
		return
	}
	p.sortedLines.Observe(float64(n))
}

func (p *PrometheusRecorder) IncProbe(distro string, ok bool) {
	if p == nil || p.probes == nil {
		return
	}
	res := "failed"
	if ok {
		res = "success"
	}
	p.probes.WithLabelValues(distro, res).Inc()
}
