// Package countdown interpolates the time remaining on the current code
// between server pushes using the local wall clock.
package countdown

import "time"

// IdleSeconds is shown while no valid period is known.
const IdleSeconds = 30

// State is the derived countdown at one instant.
type State struct {
	RemainingTime   int
	ProgressPercent float64
}

// Idle is the countdown shown when the parameters are invalid.
func Idle() State {
	return State{RemainingTime: IdleSeconds, ProgressPercent: 100}
}

type anchor struct {
	remaining int
	progress  float64
	at        time.Time
}

// Clock is not safe for concurrent use; the stream session owns it.
type Clock struct {
	period int
	anchor *anchor
}

// New returns a clock for the given rotation period in seconds.
func New(period int) *Clock {
	return &Clock{period: period}
}

// Period returns the rotation period the clock was created with.
func (c *Clock) Period() int { return c.period }

// Anchor records a server-reported countdown received at the given instant.
func (c *Clock) Anchor(remaining int, progress float64, at time.Time) {
	c.anchor = &anchor{remaining: remaining, progress: progress, at: at}
}

// Reset drops the server anchor.
func (c *Clock) Reset() { c.anchor = nil }

// At computes the countdown at now. Without an anchor it is aligned to the
// Unix epoch; with one it counts down from the anchor by whole elapsed
// seconds. Remaining time is always in 1..period.
func (c *Clock) At(now time.Time) State {
	p := c.period
	if p <= 0 {
		return Idle()
	}

	if a := c.anchor; a != nil {
		elapsed := int(now.Sub(a.at) / time.Second)
		if elapsed <= 0 {
			return State{RemainingTime: a.remaining, ProgressPercent: a.progress}
		}
		return stateFor(wrap(a.remaining-elapsed, p), p)
	}

	return stateFor(p-mod(now.Unix(), p), p)
}

func stateFor(remaining, period int) State {
	return State{
		RemainingTime:   remaining,
		ProgressPercent: float64(remaining) / float64(period) * 100,
	}
}

// wrap folds n into 1..p.
func wrap(n, p int) int {
	return int(mod(int64(n-1), p)) + 1
}

func mod(n int64, p int) int {
	m := n % int64(p)
	if m < 0 {
		m += int64(p)
	}
	return int(m)
}
