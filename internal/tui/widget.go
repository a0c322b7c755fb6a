package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	padding  = 2
	maxWidth = 80
)

var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render
)

type mode int

const (
	spin mode = iota
	bar
	finished
)

// eventMsg carries a core event into the bubbletea loop.
type eventMsg Event

type Widget struct {
	mode       mode
	title      string
	failed     bool
	cancelling bool
	cancel     func()
	spinner    spinner.Model
	progress   progress.Model
}

// NewWidget returns the job widget. cancel is called on ctrl+c or esc; the
// widget keeps running until the job reports its final event.
func NewWidget(cancel func()) *Widget {
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &Widget{
		cancel:   cancel,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (w *Widget) Init() tea.Cmd {
	return w.spinner.Tick
}

func (w *Widget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if w.mode == finished {
				return w, tea.Quit
			}
			if !w.cancelling && w.cancel != nil {
				w.cancelling = true
				w.cancel()
			}
		}
		return w, nil

	case tea.WindowSizeMsg:
		w.progress.Width = msg.Width - padding*2 - 4
		if w.progress.Width > maxWidth {
			w.progress.Width = maxWidth
		}
		return w, nil

	case eventMsg:
		return w, w.apply(Event(msg))

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := w.progress.Update(msg)
		w.progress = progressModel.(progress.Model)
		return w, cmd

	default:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}
}

func (w *Widget) apply(e Event) tea.Cmd {
	w.title = e.Text()
	switch e.eventType {
	case eventTypeSpin:
		w.mode = spin
	case eventTypeBar:
		w.mode = bar
		return w.progress.SetPercent(e.Percent())
	case eventTypeDone, eventTypeError:
		w.mode = finished
		w.failed = e.IsError()
		return tea.Quit
	}
	return nil
}

func (w *Widget) View() string {
	pad := strings.Repeat(" ", padding)

	switch w.mode {
	case spin:
		return fmt.Sprintf("\n\n%s%s %s\n%s\n", pad, w.spinner.View(), w.title, w.help(pad))
	case bar:
		return "\n" +
			pad + w.title + "\n\n" +
			pad + w.progress.View() + "\n" +
			w.help(pad) + "\n"
	case finished:
		if w.failed {
			return "\n" + pad + errorStyle("✗ "+w.title) + "\n\n"
		}
		return "\n" + pad + doneStyle("✓ "+w.title) + "\n\n"
	}
	return ""
}

func (w *Widget) help(pad string) string {
	if w.cancelling {
		return pad + helpStyle("Cancelling...")
	}
	return pad + helpStyle("Press esc or ctrl+c to cancel")
}
