package recorder

import "CryptoSentinel/internal/model"

// Recorder persists analysis history for later inspection.
type Recorder interface {
	RecordReport(rep *model.Report) error
	Close() error
}

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ *model.Report) error { return nil }
func (n *NoopRecorder) Close() error                       { return nil }
