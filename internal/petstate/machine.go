package petstate

import "time"

// Gif is the discrete animation state shown for the pet.
type Gif string

const (
	GifIdle     Gif = "IDLE"
	GifHappy    Gif = "HAPPY"
	GifDamage   Gif = "DAMAGE"
	GifCritical Gif = "CRITICAL"
	GifWave     Gif = "WAVE"
	GifThumb    Gif = "THUMB"
	GifDeath    Gif = "DEATH"
)

const (
	MaxHealth = 100

	DefaultWaveWindow     = 3 * time.Second
	DefaultHealthCooldown = 3 * time.Second
	DefaultDeathLock      = 12 * time.Second
	DefaultCriticalBelow  = 50

	distractedPenalty = -10
	happyFocusReward  = 3
	focusReward       = 1
)

// Sample is one poll of the perception service.
type Sample struct {
	Focus    string
	Emotion  string
	Wave     string
	ThumbsUp string
}

// StepResult describes the machine after one sample.
type StepResult struct {
	Gif         Gif
	Health      int
	Dead        bool
	HealthDelta int
	// Died is true only on the step that crossed into the dead state.
	Died bool
}

type Config struct {
	InitialHealth  int
	WaveWindow     time.Duration
	HealthCooldown time.Duration
	DeathLock      time.Duration
	CriticalBelow  int
}

// Machine owns the pet vitality state for one agent process: a single
// controller whose Step is deterministic given a sample and a clock.
// Not safe for concurrent use; the poll loop is the only caller.
type Machine struct {
	health        int
	dead          bool
	gif           Gif
	waveHold      *Hold
	healthGate    *Cooldown
	criticalBelow int
	deathLock     time.Duration
	lockedUntil   time.Time
}

func NewMachine(cfg Config) *Machine {
	if cfg.InitialHealth <= 0 || cfg.InitialHealth > MaxHealth {
		cfg.InitialHealth = MaxHealth
	}
	if cfg.WaveWindow <= 0 {
		cfg.WaveWindow = DefaultWaveWindow
	}
	if cfg.HealthCooldown <= 0 {
		cfg.HealthCooldown = DefaultHealthCooldown
	}
	if cfg.DeathLock <= 0 {
		cfg.DeathLock = DefaultDeathLock
	}
	if cfg.CriticalBelow <= 0 {
		cfg.CriticalBelow = DefaultCriticalBelow
	}
	return &Machine{
		health:        cfg.InitialHealth,
		gif:           GifIdle,
		waveHold:      NewHold(cfg.WaveWindow),
		healthGate:    NewCooldown(cfg.HealthCooldown),
		criticalBelow: cfg.CriticalBelow,
		deathLock:     cfg.DeathLock,
	}
}

// Step applies one perception sample at now.
func (m *Machine) Step(sample Sample, now time.Time) StepResult {
	if m.dead {
		// Terminal absorbing state until an explicit reset.
		m.gif = GifDeath
		return m.result(0, false)
	}

	m.waveHold.Observe(sample.Wave == "detected", now)

	delta := healthChange(sample)
	applied := 0
	if delta != 0 && m.healthGate.Allow(now) {
		applied = delta
		m.health = clampHealth(m.health + applied)
	}

	died := false
	if m.health <= 0 {
		m.dead = true
		died = true
		m.lockedUntil = now.Add(m.deathLock)
		m.gif = GifDeath
		return m.result(applied, died)
	}

	m.gif = m.selectGif(sample, now)
	return m.result(applied, died)
}

func (m *Machine) selectGif(sample Sample, now time.Time) Gif {
	switch {
	case m.health < m.criticalBelow:
		return GifCritical
	case m.waveHold.Active(now):
		return GifWave
	case sample.ThumbsUp == "detected":
		return GifThumb
	case sample.Focus == "focused" && sample.Emotion == "happy":
		return GifHappy
	case sample.Focus == "focused":
		return GifIdle
	default:
		return GifDamage
	}
}

// Reset revives the pet. It is a no-op while the death animation lock is
// still running, so a reset racing the death transition cannot interrupt
// the animation.
func (m *Machine) Reset(now time.Time) bool {
	if m.dead && now.Before(m.lockedUntil) {
		return false
	}
	m.health = MaxHealth
	m.dead = false
	m.gif = GifIdle
	m.waveHold.Reset()
	m.healthGate.Reset()
	m.lockedUntil = time.Time{}
	return true
}

func (m *Machine) Health() int { return m.health }
func (m *Machine) Dead() bool  { return m.dead }
func (m *Machine) Gif() Gif    { return m.gif }

func (m *Machine) result(delta int, died bool) StepResult {
	return StepResult{
		Gif:         m.gif,
		Health:      m.health,
		Dead:        m.dead,
		HealthDelta: delta,
		Died:        died,
	}
}

func healthChange(sample Sample) int {
	switch {
	case sample.Focus == "distracted":
		return distractedPenalty
	case sample.Focus == "focused" && sample.Emotion == "happy":
		return happyFocusReward
	case sample.Focus == "focused":
		return focusReward
	default:
		return 0
	}
}

func clampHealth(h int) int {
	if h < 0 {
		return 0
	}
	if h > MaxHealth {
		return MaxHealth
	}
	return h
}
