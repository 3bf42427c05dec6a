// Package engine drives playback: a Player advances the timeline cursor by
// real or synthetic time, and a Loop is the host event loop that serializes
// ticks with edits.
package engine

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ivlev/cardmotion/internal/renderer"
	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// DefaultMaxTick caps the timeline advance of a single looping tick, so a
// stalled host cannot skip whole passes of the loop in one jump.
const DefaultMaxTick = 250 * time.Millisecond

// Player is the playback state machine:
//
//	stopped -> playing -> paused -> playing -> stopped
//
// Seek is legal in every state. A Player is driven from one goroutine.
type Player struct {
	tl       *timeline.Timeline
	clk      clock.Clock
	maxTick  float64
	consumer renderer.Consumer
	last     time.Time // wall time of the previous tick
}

// Option configures a Player.
type Option func(*Player)

// WithClock replaces the real-time clock, for example with clock.NewMock().
func WithClock(clk clock.Clock) Option {
	return func(p *Player) { p.clk = clk }
}

// WithMaxTick sets the largest timeline advance a single tick may make in
// loop mode.
func WithMaxTick(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.maxTick = d.Seconds()
		}
	}
}

// WithConsumer receives a frame after every tick, seek and stop.
func WithConsumer(c renderer.Consumer) Option {
	return func(p *Player) { p.consumer = c }
}

// NewPlayer binds a player to tl.
func NewPlayer(tl *timeline.Timeline, opts ...Option) *Player {
	p := &Player{
		tl:      tl,
		clk:     clock.New(),
		maxTick: DefaultMaxTick.Seconds(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if tl.State == "" {
		tl.State = timeline.Stopped
	}
	return p
}

// Timeline returns the timeline the player drives.
func (p *Player) Timeline() *timeline.Timeline {
	return p.tl
}

// Clock returns the player's time source.
func (p *Player) Clock() clock.Clock {
	return p.clk
}

// Playing reports whether ticks advance the cursor.
func (p *Player) Playing() bool {
	return p.tl.State == timeline.Playing
}

// Play starts advancing from the current time. It is a no-op while already
// playing. Playing from the very end of a non-looping timeline restarts at 0.
func (p *Player) Play() {
	if p.Playing() {
		return
	}
	if !p.tl.Loop && p.tl.CurrentTime >= p.tl.Duration {
		p.tl.CurrentTime = 0
	}
	// Anchor the tick clock so that now - origin == CurrentTime.
	p.last = p.clk.Now()
	p.tl.State = timeline.Playing
	system.Logger().Debug("playback started",
		"at", p.tl.CurrentTime,
		"origin", p.last.Add(-seconds(p.tl.CurrentTime)))
}

// Pause stops advancing and keeps the current time.
func (p *Player) Pause() {
	if !p.Playing() {
		return
	}
	p.tl.State = timeline.Paused
	system.Logger().Debug("playback paused", "at", p.tl.CurrentTime)
}

// Stop stops advancing and rewinds to 0.
func (p *Player) Stop() {
	p.tl.State = timeline.Stopped
	p.tl.CurrentTime = 0
	system.Logger().Debug("playback stopped")
	p.emit()
}

// Seek moves the cursor to t clamped to [0, Duration] without changing the
// playback state.
func (p *Player) Seek(t float64) {
	p.tl.CurrentTime = p.tl.ClampTime(t)
	if p.Playing() {
		p.last = p.clk.Now()
	}
	p.emit()
}

// Tick reads the clock and advances by the wall time since the previous
// tick. It returns false when the player is not playing, so a tick that was
// already scheduled when playback paused changes nothing.
func (p *Player) Tick() bool {
	if !p.Playing() {
		return false
	}
	now := p.clk.Now()
	delta := now.Sub(p.last).Seconds()
	p.last = now
	p.Advance(delta)
	return true
}

// Advance moves a playing cursor forward by delta seconds of timeline time.
// In loop mode delta is capped at the max tick; otherwise wall time maps 1:1
// and the cursor stops at Duration. Hosts that own their own timing (tests, fixed-step exporters) call it
// directly instead of Tick.
func (p *Player) Advance(delta float64) {
	if !p.Playing() {
		return
	}
	if delta < 0 {
		delta = 0
	}
	if p.tl.Loop && delta > p.maxTick {
		system.Logger().Warn("tick advance capped", "delta", delta, "max", p.maxTick)
		delta = p.maxTick
	}

	next := p.tl.CurrentTime + delta
	if next > p.tl.Duration {
		if p.tl.Loop {
			next = 0
		} else {
			next = p.tl.Duration
			p.tl.State = timeline.Paused
			system.Logger().Debug("playback reached end", "duration", p.tl.Duration)
		}
	}
	p.tl.CurrentTime = next
	p.emit()
}

func (p *Player) emit() {
	if p.consumer == nil {
		return
	}
	p.consumer.Consume(renderer.Snapshot(p.tl, p.tl.CurrentTime))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
