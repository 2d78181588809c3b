package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	barpkg "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// barWidth is the fixed cell width of the progress bar.
const barWidth = 28

// minRenderInterval caps rendering at ~12 frames per second; calls
// arriving sooner than this since the last draw are dropped.
const minRenderInterval = 80 * time.Millisecond

// clearLine returns the cursor to column 0 and erases the current line,
// so every render overwrites the previous one in place.
const clearLine = "\r\x1b[K"

var (
	percentStyle = lipgloss.NewStyle().Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Renderer draws a single-line terminal progress bar. Rendering is
// suppressed entirely when the output is not an interactive terminal.
type Renderer struct {
	out         io.Writer
	enabled     bool
	minInterval time.Duration
	now         func() time.Time
	last        time.Time
	drawn       bool
	stopped     bool
	bar         barpkg.Model
}

func newRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:         out,
		minInterval: minRenderInterval,
		now:         time.Now,
		bar: barpkg.New(
			barpkg.WithSolidFill("#7C3AED"),
			barpkg.WithWidth(barWidth),
			barpkg.WithoutPercentage(),
		),
	}
}

// New creates a Renderer for the given terminal stream. If out is not an
// interactive terminal, all Render and Stop calls are no-ops.
func New(out *os.File) *Renderer {
	r := newRenderer(out)
	r.enabled = isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return r
}

// NewForTesting creates an always-enabled Renderer writing to out, with an
// injectable clock for rate-limit tests. A nil now defaults to time.Now.
func NewForTesting(out io.Writer, now func() time.Time) *Renderer {
	r := newRenderer(out)
	r.enabled = true
	if now != nil {
		r.now = now
	}
	return r
}

// Render draws the snapshot, overwriting the current terminal line.
// Calls arriving within the minimum interval since the last draw are
// dropped, so the displayed state may lag true progress slightly.
func (r *Renderer) Render(s Snapshot) {
	if !r.enabled || r.stopped {
		return
	}
	now := r.now()
	if r.drawn && now.Sub(r.last) < r.minInterval {
		return
	}
	r.last = now
	r.drawn = true
	fmt.Fprint(r.out, clearLine+r.line(s))
}

// ClearLine erases the in-place progress line so the caller can emit a
// normal log line; the next Render redraws the bar immediately.
func (r *Renderer) ClearLine() {
	if !r.enabled || r.stopped || !r.drawn {
		return
	}
	fmt.Fprint(r.out, clearLine)
	r.drawn = false
}

// Stop clears the progress line and disables further rendering. It is
// idempotent: repeated calls, or calls when rendering was never enabled,
// have no effect beyond the first successful clear.
func (r *Renderer) Stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	if !r.enabled || !r.drawn {
		return
	}
	fmt.Fprint(r.out, clearLine)
	r.drawn = false
}

func (r *Renderer) line(s Snapshot) string {
	pct := Percent(s.ProcessedBytes, s.TotalBytes)
	bar := r.bar.ViewAs(pct / 100)
	mb := float64(s.ProcessedBytes) / (1024 * 1024)

	if s.TotalBytes > 0 {
		return fmt.Sprintf("%s %s %s",
			bar,
			percentStyle.Render(fmt.Sprintf("%3.0f%%", pct)),
			detailStyle.Render(fmt.Sprintf("%d/%d files  %.2f MB", s.FilesProcessed, s.FilesTotal, mb)),
		)
	}
	return fmt.Sprintf("%s %s %s",
		bar,
		percentStyle.Render("--%"),
		detailStyle.Render(fmt.Sprintf("%d files  %.2f MB", s.FilesProcessed, mb)),
	)
}

// Percent returns processed/total as a percentage clamped to [0, 100].
// A non-positive total yields 0, the "unknown" denominator case.
func Percent(processed, total int64) float64 {
	if total <= 0 || processed <= 0 {
		return 0
	}
	pct := float64(processed) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
