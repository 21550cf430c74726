// Package progress renders byte progress of a transfer as terminal lines.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// Options configures the progress reporter.
type Options struct {
	// Label names the file being transferred.
	Label string

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is the minimum time between two progress lines.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter prints throttled progress of a single transfer. Its Update
// method matches the transfer progress callback.
type Reporter struct {
	opts Options
	now  func() time.Time

	startTime  time.Time
	lastUpdate time.Time
	done       bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}
	return &Reporter{opts: opts, now: time.Now}
}

// Update records that written of total bytes have been transferred.
func (r *Reporter) Update(written, total int64) {
	if r.done {
		return
	}
	now := r.now()
	if r.startTime.IsZero() {
		r.startTime = now
	}

	complete := total > 0 && written >= total
	if !complete && now.Sub(r.lastUpdate) < r.opts.UpdateInterval {
		return
	}
	r.lastUpdate = now

	var percent float64
	if total > 0 {
		percent = float64(written) / float64(total) * 100
	}

	if complete {
		r.done = true
		elapsed := now.Sub(r.startTime).Seconds()
		var speed uint64
		if elapsed > 0 {
			speed = uint64(float64(written) / elapsed)
		}
		fmt.Fprintf(r.opts.Output, "\r[landsat-dl] %s: 100.0%% | %s | %s/s    \n",
			r.opts.Label,
			humanize.IBytes(uint64(written)),
			humanize.IBytes(speed),
		)
		return
	}

	fmt.Fprintf(r.opts.Output, "\r[landsat-dl] %s: %.1f%% | %s / %s    ",
		r.opts.Label,
		percent,
		humanize.IBytes(uint64(written)),
		humanize.IBytes(uint64(total)),
	)
}
