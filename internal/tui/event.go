package tui

type eventType int

const (
	eventTypeSpin eventType = iota
	eventTypeBar
	eventTypeDone
	eventTypeError
)

// Event is a presentation update sent by the core while a job runs.
type Event struct {
	eventType eventType
	text      string
	percent   float64
}

func NewEventSpin(text string) Event {
	return Event{
		eventType: eventTypeSpin,
		text:      text,
	}
}

// NewEventBar carries percent in [0,1].
func NewEventBar(text string, percent float64) Event {
	return Event{
		eventType: eventTypeBar,
		text:      text,
		percent:   percent,
	}
}

func NewEventDone(text string) Event {
	return Event{
		eventType: eventTypeDone,
		text:      text,
		percent:   1,
	}
}

func NewEventError(err error) Event {
	return Event{
		eventType: eventTypeError,
		text:      err.Error(),
	}
}

func (e Event) Text() string { return e.text }

func (e Event) Percent() float64 { return e.percent }

// Final reports whether the event ends the job.
func (e Event) Final() bool {
	return e.eventType == eventTypeDone || e.eventType == eventTypeError
}

func (e Event) IsError() bool { return e.eventType == eventTypeError }
