package progress

import "sync"

// Tracker is the job progress value in [0,100], safe to share between the
// worker and whatever renders it.
type Tracker struct {
	mu    sync.Mutex
	value float64
	subs  []chan float64
}

func New() *Tracker {
	return &Tracker{}
}

// Value returns the current percentage.
func (t *Tracker) Value() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Set stores v, clamped to [0,100], and notifies subscribers.
func (t *Tracker) Set(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setLocked(v)
}

func (t *Tracker) setLocked(v float64) {
	t.value = v
	for _, ch := range t.subs {
		// latest value wins, a slow reader only misses intermediate steps
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Advance moves forward to v; smaller values are ignored.
func (t *Tracker) Advance(v float64) {
	if v > 100 {
		v = 100
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if v > t.value {
		t.setLocked(v)
	}
}

func (t *Tracker) Reset() {
	t.Set(0)
}

// Subscribe returns a channel that always holds the latest value not yet read.
// The returned func unsubscribes and closes the channel.
func (t *Tracker) Subscribe() (<-chan float64, func()) {
	ch := make(chan float64, 1)
	t.mu.Lock()
	t.subs = append(t.subs, ch)
	t.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, s := range t.subs {
				if s == ch {
					t.subs = append(t.subs[:i], t.subs[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}
}
