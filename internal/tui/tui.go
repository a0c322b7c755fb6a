package tui

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	cfg "github.com/1F47E/go-framereel/internal/config"
)

// Renderer shows job events until the final one arrives or ctx is done.
type Renderer interface {
	Run(ctx context.Context, events <-chan Event) error
}

// ResolveMode turns the auto mode into a concrete one: the interactive widget
// on a terminal, plain lines otherwise.
func ResolveMode(mode string, out *os.File) string {
	if mode != cfg.UIAuto && mode != "" {
		return mode
	}
	fd := out.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return cfg.UITUI
	}
	return cfg.UIPlain
}

// NewRenderer builds the renderer for a resolved mode. progress feeds the plain
// renderer and may be nil; cancel is bound to the widget's cancel keys.
func NewRenderer(mode string, out io.Writer, progress <-chan float64, cancel func()) Renderer {
	switch mode {
	case cfg.UITUI:
		return New(out, cancel)
	case cfg.UIBar:
		return NewBar(out)
	default:
		return NewPlain(out, progress)
	}
}

type TUI struct {
	out    io.Writer
	cancel func()
}

func New(out io.Writer, cancel func()) *TUI {
	return &TUI{out: out, cancel: cancel}
}

// Run starts the bubbletea widget and forwards events to it.
func (t *TUI) Run(ctx context.Context, events <-chan Event) error {
	widget := NewWidget(t.cancel)
	p := tea.NewProgram(widget, tea.WithOutput(t.out))

	go func() {
		for {
			select {
			case <-ctx.Done():
				drain(events, func(e Event) { p.Send(eventMsg(e)) })
				p.Quit()
				return
			case e := <-events:
				p.Send(eventMsg(e))
				if e.Final() {
					return
				}
			}
		}
	}()

	_, err := p.Run()
	return err
}

// drain hands over whatever is still buffered, stopping after a final event.
func drain(events <-chan Event, fn func(Event)) {
	for {
		select {
		case e := <-events:
			fn(e)
			if e.Final() {
				return
			}
		default:
			return
		}
	}
}
