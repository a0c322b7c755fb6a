package tui

import (
	"context"
	"fmt"
	"io"
	"math"
)

// plainStep is the progress granularity, in percent, of the plain renderer.
const plainStep = 10

// Plain writes one line per phase change and per progress step. It is the
// renderer for pipes and log files.
type Plain struct {
	out      io.Writer
	progress <-chan float64
	last     string
	step     int
	bar      bool
}

// NewPlain reports phases from events and percentages from progress, which
// may be nil.
func NewPlain(out io.Writer, progress <-chan float64) *Plain {
	return &Plain{out: out, progress: progress}
}

func (p *Plain) Run(ctx context.Context, events <-chan Event) error {
	progress := p.progress
	for {
		select {
		case <-ctx.Done():
			drain(events, p.apply)
			return nil
		case v, ok := <-progress:
			if !ok {
				progress = nil
				continue
			}
			p.percent(v)
		case e := <-events:
			p.apply(e)
			if e.Final() {
				return nil
			}
		}
	}
}

func (p *Plain) apply(e Event) {
	switch e.eventType {
	case eventTypeBar:
		// bar text changes with every frame; only the phase is worth a line
		if !p.bar {
			p.bar = true
			p.line("Assembling frames...")
		}
	case eventTypeError:
		p.line("Error: " + e.Text())
	default:
		p.line(e.Text())
	}
}

func (p *Plain) percent(v float64) {
	step := int(math.Floor(v/plainStep)) * plainStep
	if step <= p.step {
		return
	}
	p.step = step
	fmt.Fprintf(p.out, "progress: %d%%\n", step)
}

func (p *Plain) line(s string) {
	if s == p.last {
		return
	}
	p.last = s
	fmt.Fprintln(p.out, s)
}
