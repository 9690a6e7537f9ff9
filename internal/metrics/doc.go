// Package metrics provides run metrics for pathfix.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing; PrometheusRecorder registers counters on a
// registry which the CLI can export in the Prometheus text format for a
// node_exporter textfile collector:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	engine, err := pathfix.NewEngine(opts)
//	...
//	engine.WithRecorder(rec)
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
