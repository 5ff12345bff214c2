package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/jutdl/jutdl/color"
	"github.com/jutdl/jutdl/downloader"
	"github.com/jutdl/jutdl/episode"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/quality"
	"github.com/jutdl/jutdl/style"
	"github.com/jutdl/jutdl/util"
)

// progress prints one line per finished episode. On a terminal it keeps a status
// line below them that is redrawn after every report.
type progress struct {
	mu          sync.Mutex
	out         io.Writer
	status      string
	interactive bool
	erase       func()
	done        int
}

func newProgress(out io.Writer, anime string, spec episode.Spec, tier quality.Tier) *progress {
	return &progress{
		out: out,
		status: fmt.Sprintf(
			"%s Downloading %s (episodes %s, %s)",
			icon.Get(icon.Progress),
			anime,
			spec,
			tier,
		),
		interactive: util.IsTerminal(out),
		erase:       func() {},
	}
}

func (p *progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw()
}

func (p *progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.erase()
	p.erase = func() {}
}

// Report is safe to call from several goroutines.
func (p *progress) Report(r downloader.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.erase()
	if r.Err != nil {
		fmt.Fprintf(p.out, "%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), r.Err)
	} else {
		p.done++
		fmt.Fprintf(
			p.out,
			"%s %s episode %d %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			icon.Get(icon.Episode),
			r.Episode,
			style.Faint(r.Path),
		)
	}
	p.draw()
}

func (p *progress) draw() {
	if !p.interactive {
		return
	}
	p.erase = util.PrintErasable(p.out, fmt.Sprintf("%s [%d done]", p.status, p.done))
}
