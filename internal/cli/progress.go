package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// slideProgress reports per-slide extraction progress with a bar.
type slideProgress struct {
	out   io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
}

func newSlideProgress(out io.Writer, quiet bool) *slideProgress {
	return &slideProgress{out: out, quiet: quiet}
}

// update is passed to slidemodel.WithProgress.
func (p *slideProgress) update(done, total int) {
	if p.quiet || total <= 0 {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("Reading slides"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(p.out)
			}),
		)
	}
	p.bar.Set(done)
}

func (p *slideProgress) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
