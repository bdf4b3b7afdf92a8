package petstate

import "time"

// Hold remembers a signal for a fixed window after it was last seen.
// Noisy per-poll detections (a wave reported on one sample and gone on the
// next) stay active until the window elapses, which keeps the visual state
// from flickering.
type Hold struct {
	window   time.Duration
	lastSeen time.Time
}

func NewHold(window time.Duration) *Hold {
	return &Hold{window: window}
}

// Observe records whether the signal was present at now.
func (h *Hold) Observe(present bool, now time.Time) {
	if present {
		h.lastSeen = now
	}
}

// Active reports whether the signal is still considered present at now.
func (h *Hold) Active(now time.Time) bool {
	if h.lastSeen.IsZero() {
		return false
	}
	return now.Sub(h.lastSeen) < h.window
}

// Reset clears the remembered signal.
func (h *Hold) Reset() {
	h.lastSeen = time.Time{}
}

// Cooldown gates an action to at most once per fixed interval.
type Cooldown struct {
	interval time.Duration
	lastFire time.Time
}

func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{interval: interval}
}

// Allow reports whether the action may fire at now, and records the firing
// when it may. The first call always fires.
func (c *Cooldown) Allow(now time.Time) bool {
	if !c.lastFire.IsZero() && now.Sub(c.lastFire) < c.interval {
		return false
	}
	c.lastFire = now
	return true
}

// Reset clears the last firing so the next Allow fires immediately.
func (c *Cooldown) Reset() {
	c.lastFire = time.Time{}
}
