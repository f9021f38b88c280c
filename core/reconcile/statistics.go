package reconcile

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Statistics counts the outcome of one sync run. Counters are safe for concurrent use.
//
// At the end of a run
//
//	Processed == Created + Updated + Unchanged + Failed + Unresolved + Skipped
type Statistics struct {
	RunID string
	Kind  Kind

	processed  atomic.Int64
	created    atomic.Int64
	updated    atomic.Int64
	unchanged  atomic.Int64
	failed     atomic.Int64
	unresolved atomic.Int64
	skipped    atomic.Int64

	tracksUnresolved bool
	started          time.Time
	duration         atomic.Int64
}

// NewStatistics creates empty statistics for a run over kind.
func NewStatistics(runID string, kind Kind, tracksUnresolved bool) *Statistics {
	return &Statistics{
		RunID:            runID,
		Kind:             kind,
		tracksUnresolved: tracksUnresolved,
		started:          time.Now(),
	}
}

func (s *Statistics) Processed() int64  { return s.processed.Load() }
func (s *Statistics) Created() int64    { return s.created.Load() }
func (s *Statistics) Updated() int64    { return s.updated.Load() }
func (s *Statistics) Unchanged() int64  { return s.unchanged.Load() }
func (s *Statistics) Failed() int64     { return s.failed.Load() }
func (s *Statistics) Unresolved() int64 { return s.unresolved.Load() }
func (s *Statistics) Skipped() int64    { return s.skipped.Load() }

// Duration is the elapsed time of the run, set when the run finishes.
func (s *Statistics) Duration() time.Duration {
	return time.Duration(s.duration.Load())
}

func (s *Statistics) incrementProcessed(n int) { s.processed.Add(int64(n)) }
func (s *Statistics) incrementCreated()        { s.created.Add(1) }
func (s *Statistics) incrementUpdated()        { s.updated.Add(1) }
func (s *Statistics) incrementUnchanged()      { s.unchanged.Add(1) }
func (s *Statistics) incrementFailed()         { s.failed.Add(1) }
func (s *Statistics) incrementUnresolved()     { s.unresolved.Add(1) }
func (s *Statistics) decrementUnresolved()     { s.unresolved.Add(-1) }
func (s *Statistics) incrementSkipped()        { s.skipped.Add(1) }

func (s *Statistics) finish() {
	s.duration.Store(int64(time.Since(s.started)))
}

// ReportMessage summarizes the counters.
func (s *Statistics) ReportMessage() string {
	things := s.Kind.Plural()
	var b strings.Builder
	fmt.Fprintf(&b, "Summary: %d %s were processed in total (%d created, %d updated and %d failed to sync).",
		s.Processed(), things, s.Created(), s.Updated(), s.Failed())
	if s.tracksUnresolved {
		fmt.Fprintf(&b, " %d %s with missing references were deferred.", s.Unresolved(), things)
	}
	if n := s.Skipped(); n > 0 {
		fmt.Fprintf(&b, " %d %s were skipped.", n, things)
	}
	return b.String()
}

// Report is a point in time copy of Statistics.
type Report struct {
	RunID      string `json:"runId"`
	Kind       Kind   `json:"kind"`
	Processed  int64  `json:"processed"`
	Created    int64  `json:"created"`
	Updated    int64  `json:"updated"`
	Unchanged  int64  `json:"unchanged"`
	Failed     int64  `json:"failed"`
	Unresolved int64  `json:"unresolved"`
	Skipped    int64  `json:"skipped"`
	DurationMS int64  `json:"durationMs"`
	Message    string `json:"message"`
}

// Report returns the current counters.
func (s *Statistics) Report() Report {
	return Report{
		RunID:      s.RunID,
		Kind:       s.Kind,
		Processed:  s.Processed(),
		Created:    s.Created(),
		Updated:    s.Updated(),
		Unchanged:  s.Unchanged(),
		Failed:     s.Failed(),
		Unresolved: s.Unresolved(),
		Skipped:    s.Skipped(),
		DurationMS: s.Duration().Milliseconds(),
		Message:    s.ReportMessage(),
	}
}
