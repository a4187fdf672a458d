package model

import (
	"encoding/json"
	"io"
)

// Stage identifies one phase of the scan pipeline as seen by consumers.
type Stage string

const (
	StageInitialising Stage = "initialising"
	StageDiscovering  Stage = "discovering"
	StageFetching     Stage = "fetching"
	StageAnalysing    Stage = "analysing"
	StageGenerating   Stage = "generating"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// ProgressEvent is one unit of the pipeline's observable output stream.
// Exactly one terminal event (complete or error) is emitted per run, and
// Progress never decreases within a run.
type ProgressEvent struct {
	Stage    Stage       `json:"stage"`
	Message  string      `json:"message"`
	Detail   string      `json:"detail,omitempty"`
	Progress int         `json:"progress"` // 0-100
	Data     *ScanResult `json:"data,omitempty"`
}

// Terminal reports whether the event ends the run.
func (e ProgressEvent) Terminal() bool {
	return e.Stage == StageComplete || e.Stage == StageError
}

// EventWriter serializes ProgressEvents as line-delimited JSON, one record
// per event, flushing after each write when the sink supports it.
type EventWriter struct {
	enc     *json.Encoder
	flusher interface{ Flush() }
}

// NewEventWriter wraps w for NDJSON event output. If w implements
// Flush() (e.g. http.Flusher via an adapter, bufio.Writer), each event is
// flushed as soon as it is written.
func NewEventWriter(w io.Writer) *EventWriter {
	ew := &EventWriter{enc: json.NewEncoder(w)}
	if f, ok := w.(interface{ Flush() }); ok {
		ew.flusher = f
	}
	return ew
}

// Write emits one event as a single JSON line.
func (ew *EventWriter) Write(e ProgressEvent) error {
	if err := ew.enc.Encode(e); err != nil {
		return err
	}
	if ew.flusher != nil {
		ew.flusher.Flush()
	}
	return nil
}
