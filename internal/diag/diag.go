// Package diag accumulates one structured record per unit load attempt so
// an operator can answer "which nodes loaded degraded and why" without
// touching registry content.
package diag

import (
	"sync"

	"github.com/google/uuid"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
)

// Summary counts load outcomes for one run.
type Summary struct {
	Loaded  int `json:"loaded"`
	Stubbed int `json:"stubbed"`
	Failed  int `json:"failed"`
}

// Log is the append-only diagnostics log for one process. Reads never
// mutate it.
type Log struct {
	mu      sync.Mutex
	runID   string
	records []loader.Record
}

// New creates an empty diagnostics log with a fresh run id.
func New() *Log {
	return &Log{runID: uuid.NewString()}
}

// RunID identifies the load run the records belong to.
func (l *Log) RunID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runID
}

// Append records the results of load attempts. On hot reload the log keeps
// accumulating under a new run id.
func (l *Log) Append(records ...loader.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, records...)
}

// Reset starts a new run: records are cleared and a fresh run id minted.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.runID = uuid.NewString()
}

// Records returns a copy of all records in append order.
func (l *Log) Records() []loader.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]loader.Record, len(l.records))
	copy(out, l.records)
	return out
}

// Summary returns the outcome counts for the current records.
func (l *Log) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	var s Summary
	for _, r := range l.records {
		switch r.Outcome {
		case loader.Loaded:
			s.Loaded++
		case loader.Stubbed:
			s.Stubbed++
		case loader.Failed:
			s.Failed++
		}
	}
	return s
}
