package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPercentClamped(t *testing.T) {
	tests := []struct {
		name      string
		processed int64
		total     int64
		want      float64
	}{
		{"zero of zero", 0, 0, 0},
		{"unknown total", 500, 0, 0},
		{"negative total", 10, -5, 0},
		{"negative processed", -10, 100, 0},
		{"halfway", 50, 100, 50},
		{"complete", 100, 100, 100},
		{"overshoot", 150, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(tt.processed, tt.total)
			if got != tt.want {
				t.Errorf("Percent(%d, %d) = %v, want %v", tt.processed, tt.total, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Percent(%d, %d) = %v, outside [0,100]", tt.processed, tt.total, got)
			}
		})
	}
}

// fakeClock returns a controllable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func renderCount(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "\r")
}

func TestRenderRateLimited(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(1000, 0)}
	r := NewForTesting(&buf, clock.now)

	snap := Snapshot{FilesProcessed: 1, FilesTotal: 10, ProcessedBytes: 100, TotalBytes: 1000}

	// Many calls inside one 80ms window produce exactly one write.
	for i := 0; i < 50; i++ {
		r.Render(snap)
		clock.advance(time.Millisecond)
	}
	if got := renderCount(&buf); got != 1 {
		t.Errorf("renders within window = %d, want 1", got)
	}

	clock.advance(100 * time.Millisecond)
	r.Render(snap)
	if got := renderCount(&buf); got != 2 {
		t.Errorf("renders after interval elapsed = %d, want 2", got)
	}
}

func TestRenderOverwritesSingleLine(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(1000, 0)}
	r := NewForTesting(&buf, clock.now)

	r.Render(Snapshot{FilesProcessed: 3, FilesTotal: 10, ProcessedBytes: 100, TotalBytes: 1000})

	out := buf.String()
	if !strings.HasPrefix(out, "\r\x1b[K") {
		t.Error("render does not return to column 0 and clear the line")
	}
	if strings.Contains(out, "\n") {
		t.Error("render appended a newline")
	}
	if !strings.Contains(out, "3/10 files") {
		t.Errorf("output %q missing files count", out)
	}
}

func TestRenderUnknownTotals(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTesting(&buf, nil)

	r.Render(Snapshot{FilesProcessed: 4, ProcessedBytes: 2 * 1024 * 1024})

	out := buf.String()
	if !strings.Contains(out, "--%") {
		t.Errorf("output %q missing unknown-percentage indicator", out)
	}
	if !strings.Contains(out, "4 files") {
		t.Errorf("output %q missing processed count", out)
	}
	if strings.Contains(out, "4/") {
		t.Errorf("output %q shows a total that is unknown", out)
	}
	if !strings.Contains(out, "2.00 MB") {
		t.Errorf("output %q missing processed size", out)
	}
}

func TestStopIdempotent(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTesting(&buf, nil)

	r.Render(Snapshot{FilesProcessed: 1, FilesTotal: 2, ProcessedBytes: 1, TotalBytes: 2})
	r.Stop()
	after := buf.String()
	r.Stop()
	r.Stop()

	if buf.String() != after {
		t.Error("second Stop changed terminal state")
	}
	if !strings.HasSuffix(after, "\r\x1b[K") {
		t.Error("Stop did not clear the progress line")
	}
}

func TestStopWithoutRenderWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTesting(&buf, nil)

	r.Stop()

	if buf.Len() != 0 {
		t.Errorf("Stop with nothing drawn wrote %q", buf.String())
	}
}

func TestRenderAfterStopIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTesting(&buf, nil)

	r.Stop()
	r.Render(Snapshot{FilesProcessed: 1, FilesTotal: 1, ProcessedBytes: 1, TotalBytes: 1})

	if buf.Len() != 0 {
		t.Errorf("Render after Stop wrote %q", buf.String())
	}
}

func TestClearLineAllowsLogInterleaving(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(1000, 0)}
	r := NewForTesting(&buf, clock.now)

	r.Render(Snapshot{FilesProcessed: 1, FilesTotal: 2, ProcessedBytes: 1, TotalBytes: 2})
	r.ClearLine()

	// The next render redraws immediately, without waiting for the interval.
	before := renderCount(&buf)
	r.Render(Snapshot{FilesProcessed: 2, FilesTotal: 2, ProcessedBytes: 2, TotalBytes: 2})
	if got := renderCount(&buf); got != before+1 {
		t.Error("render after ClearLine was dropped")
	}
}

func TestNonTerminalOutputSuppressed(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	r := New(f)
	r.Render(Snapshot{FilesProcessed: 1, FilesTotal: 2, ProcessedBytes: 1, TotalBytes: 2})
	r.Stop()

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("non-terminal output received %d bytes of progress spam", info.Size())
	}
}
