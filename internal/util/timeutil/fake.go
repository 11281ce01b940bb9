package timeutil

import (
	"sync"
	"time"
)

var _ Ticker = (*FakeTicker)(nil)

// FakeTicker only ticks when Tick is called. Tick blocks until the tick is received.
type FakeTicker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func NewFakeTicker() *FakeTicker {
	return &FakeTicker{ch: make(chan time.Time)}
}

func (t *FakeTicker) C() <-chan time.Time { return t.ch }

func (t *FakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
}

func (t *FakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stopped
}

func (t *FakeTicker) Tick() {
	t.ch <- time.Now()
}

// Func returns a NewTickerFunc that always hands out t, whatever the duration.
func (t *FakeTicker) Func() NewTickerFunc {
	return func(time.Duration) Ticker {
		return t
	}
}
