package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

const barMax = 1000

// Bar renders events with a single-line progress bar, for terminals where the
// full widget is unwanted.
type Bar struct {
	out     io.Writer
	bar     *progressbar.ProgressBar
	spinner bool
}

func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

func (b *Bar) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			drain(events, b.apply)
			b.clear()
			return nil
		case e := <-events:
			b.apply(e)
			if e.Final() {
				return nil
			}
		}
	}
}

func (b *Bar) apply(e Event) {
	switch e.eventType {
	case eventTypeSpin:
		b.reset(-1, e.Text())
		_ = b.bar.RenderBlank()
	case eventTypeBar:
		if b.bar == nil || b.spinner {
			b.reset(barMax, e.Text())
		}
		b.bar.Describe(e.Text())
		_ = b.bar.Set(int(e.Percent() * barMax))
	case eventTypeDone:
		if b.bar != nil && !b.spinner {
			_ = b.bar.Finish()
		}
		b.clear()
		fmt.Fprintln(b.out, e.Text())
	case eventTypeError:
		b.clear()
		fmt.Fprintf(b.out, "Error: %s\n", e.Text())
	}
}

func (b *Bar) reset(max int, desc string) {
	b.clear()
	b.spinner = max < 0
	b.bar = progressCreate(b.out, max, desc)
}

func (b *Bar) clear() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Clear()
	b.bar = nil
}

func progressCreate(out io.Writer, max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]/[reset]",
			SaucerHead:    "[green]/[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
