package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	filesScanned *prom.CounterVec
	pathsFixed   *prom.CounterVec
	parseErrors  *prom.CounterVec
	filesSkipped prom.Counter
	runDuration  prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		filesScanned: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pathfix",
			Name:      "files_scanned_total",
			Help:      "Files handed to a format adapter",
		}, []string{"format"}),
		pathsFixed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pathfix",
			Name:      "paths_fixed_total",
			Help:      "Path strings rewritten to a portable form",
		}, []string{"format"}),
		parseErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pathfix",
			Name:      "parse_errors_total",
			Help:      "Files left untouched because they could not be parsed",
		}, []string{"format"}),
		filesSkipped: prom.NewCounter(prom.CounterOpts{
			Namespace: "pathfix",
			Name:      "files_skipped_total",
			Help:      "Entries that could not be listed, read or written",
		}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: "pathfix",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
	}
	reg.MustRegister(pr.filesScanned, pr.pathsFixed, pr.parseErrors, pr.filesSkipped, pr.runDuration)
	return pr
}

func (p *PrometheusRecorder) IncFileScanned(format string) {
	if p == nil {
		return
	}
	p.filesScanned.WithLabelValues(format).Inc()
}

func (p *PrometheusRecorder) IncPathFixed(format string) {
	if p == nil {
		return
	}
	p.pathsFixed.WithLabelValues(format).Inc()
}

func (p *PrometheusRecorder) IncParseError(format string) {
	if p == nil {
		return
	}
	p.parseErrors.WithLabelValues(format).Inc()
}

func (p *PrometheusRecorder) IncFileSkipped() {
	if p == nil {
		return
	}
	p.filesSkipped.Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Set(d.Seconds())
}
