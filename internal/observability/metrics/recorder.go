// Package metrics provides the Prometheus collectors of the lifelist tracker.
package metrics

// Recorder defines a minimal interface for recording metrics.
// Components depend on it instead of concrete collectors so tests can pass a fake or nil.
type Recorder interface {
	// RecordOperation records an operation with its status.
	RecordOperation(operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, seconds float64)

	// RecordError records an error occurrence with its type.
	RecordError(operation, errorType string)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordOperation(string, string) {}
func (NopRecorder) RecordDuration(string, float64) {}
func (NopRecorder) RecordError(string, string)     {}

// OrNop returns r, or a NopRecorder when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return NopRecorder{}
	}
	return r
}

// ImportRecorder is implemented by recorders that also count imported rows.
type ImportRecorder interface {
	RecordImportedRows(imported, skipped int)
}

// SizeRecorder is implemented by recorders that track transfer sizes.
type SizeRecorder interface {
	RecordDownloadBytes(n int64)
}
