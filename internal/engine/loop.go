package engine

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Loop is the single goroutine that owns a timeline. Ticks and posted
// actions run one at a time, so an edit lands entirely before or after a
// tick's evaluation. The ticker only exists while the player is playing.
type Loop struct {
	player   *Player
	interval time.Duration
	actions  chan action
}

type action struct {
	fn   func()
	done chan struct{}
}

// NewLoop ticks player at fps while it plays.
func NewLoop(player *Player, fps float64) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		player:   player,
		interval: time.Duration(float64(time.Second) / fps),
		actions:  make(chan action),
	}
}

// Run processes ticks and actions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	var ticker *clock.Ticker
	var tickC <-chan time.Time

	syncTicker := func() {
		playing := l.player.Playing()
		switch {
		case playing && ticker == nil:
			ticker = l.player.Clock().Ticker(l.interval)
			tickC = ticker.C
		case !playing && ticker != nil:
			// Dropping the channel discards any tick already pending.
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	syncTicker()
	for {
		select {
		case <-ctx.Done():
			return nil
		case a := <-l.actions:
			a.fn()
			syncTicker()
			close(a.done)
		case <-tickC:
			l.player.Tick()
			syncTicker()
		}
	}
}

// Do runs fn on the loop goroutine and waits until it has finished and the
// ticker reflects any playback change it made.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})

	select {
	case l.actions <- action{fn: fn, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
