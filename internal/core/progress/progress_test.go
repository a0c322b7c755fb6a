package progress

import "testing"

func TestSetClamps(t *testing.T) {
	testCases := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative", -5, 0},
		{"inside", 42.5, 42.5},
		{"over", 120, 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := New()
			p.Set(tc.in)
			if got := p.Value(); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAdvanceIsMonotonic(t *testing.T) {
	p := New()
	p.Advance(10)
	p.Advance(5)
	if got := p.Value(); got != 10 {
		t.Errorf("got %v, want 10", got)
	}
	p.Reset()
	if got := p.Value(); got != 0 {
		t.Errorf("after reset got %v", got)
	}
}

func TestSubscribeKeepsLatest(t *testing.T) {
	p := New()
	ch, cancel := p.Subscribe()
	p.Set(10)
	p.Set(20)
	p.Set(30)
	if got := <-ch; got != 30 {
		t.Errorf("got %v, want 30", got)
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	// no subscribers left, must not block
	p.Set(50)
}
