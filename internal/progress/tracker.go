// Package progress tracks and renders live archiving progress.
package progress

import "distzip/internal/ports"

// Snapshot is a read-only view of the counters at one point in time.
// TotalBytes == 0 means the totals are unknown (the stats scan failed).
type Snapshot struct {
	FilesProcessed int
	FilesTotal     int
	ProcessedBytes int64
	TotalBytes     int64
}

// Tracker owns the cumulative counters for a single archive job and fans
// events out to a render callback. It implements ports.ProgressSink; all
// calls happen on the archiving goroutine, so no locking is needed.
type Tracker struct {
	snap   Snapshot
	render func(Snapshot)
	warn   func(path string, err error)
}

// NewTracker creates a Tracker seeded with the scanned totals. Either
// callback may be nil.
func NewTracker(filesTotal int, bytesTotal int64, render func(Snapshot), warn func(path string, err error)) *Tracker {
	return &Tracker{
		snap:   Snapshot{FilesTotal: filesTotal, TotalBytes: bytesTotal},
		render: render,
		warn:   warn,
	}
}

// Entry records a completed filesystem entry. Directories are counted as
// entries but never increment the processed-files tally.
func (t *Tracker) Entry(path string, isDir bool) {
	if !isDir {
		t.snap.FilesProcessed++
	}
	t.emit()
}

// Bytes records n more source bytes flowing through the compressor.
func (t *Tracker) Bytes(n int64) {
	t.snap.ProcessedBytes += n
	t.emit()
}

// Warn forwards a non-fatal per-entry problem.
func (t *Tracker) Warn(path string, err error) {
	if t.warn != nil {
		t.warn(path, err)
	}
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	return t.snap
}

func (t *Tracker) emit() {
	if t.render != nil {
		t.render(t.snap)
	}
}

// Compile-time check that Tracker implements ports.ProgressSink.
var _ ports.ProgressSink = (*Tracker)(nil)
