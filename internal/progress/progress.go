package progress

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"

	"cinefill/internal/logging"
)

// logStepPercent is the reporting granularity in plain mode.
const logStepPercent = 10

// Reporter tracks one pass. Step is safe for concurrent use by pool workers.
type Reporter struct {
	mu      sync.Mutex
	label   string
	total   int
	lastPct int

	writer  progress.Writer
	tracker *progress.Tracker
	logger  *slog.Logger
}

// New creates a reporter for a pass of total units, picking bar or plain
// mode from whether out is a terminal.
func New(out *os.File, label string, total int, logger *slog.Logger) *Reporter {
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return newBar(out, label, total, logger)
	}
	return NewPlain(label, total, logger)
}

// NewPlain creates a reporter that logs a line per completed step of ten
// percent. Used when output is piped and in tests.
func NewPlain(label string, total int, logger *slog.Logger) *Reporter {
	return &Reporter{
		label:  label,
		total:  total,
		logger: logging.NewComponentLogger(logger, "progress"),
	}
}

func newBar(out *os.File, label string, total int, logger *slog.Logger) *Reporter {
	writer := progress.NewWriter()
	writer.SetOutputWriter(out)
	writer.SetUpdateFrequency(100 * time.Millisecond)
	writer.SetTrackerLength(30)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Speed = true

	tracker := &progress.Tracker{
		Message: label,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	writer.AppendTracker(tracker)
	go writer.Render()

	return &Reporter{
		label:   label,
		total:   total,
		writer:  writer,
		tracker: tracker,
		logger:  logging.NewComponentLogger(logger, "progress"),
	}
}

// Step records that done of total units are complete.
func (r *Reporter) Step(done, total int) {
	if r == nil {
		return
	}
	if r.tracker != nil {
		if total > 0 && r.tracker.Total != int64(total) {
			r.tracker.UpdateTotal(int64(total))
		}
		r.tracker.SetValue(int64(done))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if total <= 0 {
		return
	}
	pct := done * 100 / total
	pct -= pct % logStepPercent
	if pct <= r.lastPct {
		return
	}
	r.lastPct = pct
	r.logger.Info("pass progress",
		logging.String("label", r.label),
		logging.Int("done", done),
		logging.Int("total", total),
		logging.Int("percent", pct))
}

// Finish closes out the bar; plain mode needs no teardown.
func (r *Reporter) Finish() {
	if r == nil || r.writer == nil {
		return
	}
	r.tracker.MarkAsDone()
	// Give the renderer one cycle to paint the final state.
	for i := 0; i < 20 && r.writer.IsRenderInProgress(); i++ {
		if r.writer.LengthActive() == 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	r.writer.Stop()
}
