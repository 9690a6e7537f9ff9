package metrics

import "time"

// Recorder defines observability hooks for a normalization run. Implementations
// must be safe for concurrent use.
type Recorder interface {
	IncFileScanned(format string)
	IncPathFixed(format string)
	IncParseError(format string)
	IncFileSkipped()
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFileScanned(string)            {}
func (NoopRecorder) IncPathFixed(string)              {}
func (NoopRecorder) IncParseError(string)             {}
func (NoopRecorder) IncFileSkipped()                  {}
func (NoopRecorder) ObserveRunDuration(time.Duration) {}
