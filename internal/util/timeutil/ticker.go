package timeutil

import "time"

// Ticker is the part of time.Ticker the compile server needs, so tests can tick by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type NewTickerFunc func(d time.Duration) Ticker

var _ Ticker = (*realTicker)(nil)

type realTicker struct {
	ticker *time.Ticker
}

func NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }
