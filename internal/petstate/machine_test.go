package petstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func focusedSample() Sample {
	return Sample{Focus: "focused", Emotion: "neutral", Wave: "not_detected", ThumbsUp: "not_detected"}
}

func distractedSample() Sample {
	return Sample{Focus: "distracted", Emotion: "neutral", Wave: "not_detected", ThumbsUp: "not_detected"}
}

func TestHealthClampedOnEveryStep(t *testing.T) {
	t.Parallel()

	base := time.Now()
	m := NewMachine(Config{InitialHealth: 99})

	happy := focusedSample()
	happy.Emotion = "happy"
	res := m.Step(happy, base)
	assert.Equal(t, 100, res.Health, "+3 on 99 clamps to 100")
	assert.Equal(t, GifHappy, res.Gif)

	for i := 0; i < 50; i++ {
		res = m.Step(happy, base.Add(time.Duration(i+1)*10*time.Second))
		require.LessOrEqual(t, res.Health, 100)
		require.GreaterOrEqual(t, res.Health, 0)
	}
}

func TestDistractionPenaltyOncePerCooldownWindow(t *testing.T) {
	t.Parallel()

	base := time.Now()
	m := NewMachine(Config{InitialHealth: 100})

	// Polls every 300ms: only the first in each 3s window applies -10.
	applied := 0
	for i := 0; i < 10; i++ {
		res := m.Step(distractedSample(), base.Add(time.Duration(i)*300*time.Millisecond))
		applied += res.HealthDelta
	}
	assert.Equal(t, -10, applied, "one penalty within the first window")
	assert.Equal(t, 90, m.Health())

	res := m.Step(distractedSample(), base.Add(3*time.Second))
	assert.Equal(t, -10, res.HealthDelta, "next window applies exactly one more")
	assert.Equal(t, 80, res.Health)
}

func TestFocusRewards(t *testing.T) {
	t.Parallel()

	base := time.Now()
	m := NewMachine(Config{InitialHealth: 60})

	res := m.Step(focusedSample(), base)
	assert.Equal(t, 1, res.HealthDelta)
	assert.Equal(t, GifIdle, res.Gif)

	happy := focusedSample()
	happy.Emotion = "happy"
	res = m.Step(happy, base.Add(4*time.Second))
	assert.Equal(t, 3, res.HealthDelta)
	assert.Equal(t, GifHappy, res.Gif)
}

func TestWaveMemoryKeepsGifActive(t *testing.T) {
	t.Parallel()

	base := time.Now()
	m := NewMachine(Config{InitialHealth: 100})

	waving := focusedSample()
	waving.Wave = "detected"
	res := m.Step(waving, base)
	assert.Equal(t, GifWave, res.Gif)

	// Wave gone from the next samples, but still inside the 3s window.
	res = m.Step(focusedSample(), base.Add(time.Second))
	assert.Equal(t, GifWave, res.Gif)
	res = m.Step(focusedSample(), base.Add(2999*time.Millisecond))
	assert.Equal(t, GifWave, res.Gif)

	res = m.Step(focusedSample(), base.Add(3*time.Second))
	assert.Equal(t, GifIdle, res.Gif, "window elapsed")
}

func TestGifPriorityOrder(t *testing.T) {
	t.Parallel()

	base := time.Now()
	m := NewMachine(Config{InitialHealth: 40})

	// Critical health beats wave and thumbs up.
	everything := Sample{Focus: "focused", Emotion: "happy", Wave: "detected", ThumbsUp: "detected"}
	res := m.Step(everything, base)
	assert.Equal(t, GifCritical, res.Gif)

	m2 := NewMachine(Config{InitialHealth: 100})
	thumbs := focusedSample()
	thumbs.ThumbsUp = "detected"
	res = m2.Step(thumbs, base)
	assert.Equal(t, GifThumb, res.Gif)

	res = m2.Step(distractedSample(), base.Add(10*time.Second))
	assert.Equal(t, GifDamage, res.Gif)
}

func TestDeathIsSticky(t *testing.T) {
	t.Parallel()

	base := time.Now()
	m := NewMachine(Config{InitialHealth: 10})

	res := m.Step(distractedSample(), base)
	require.True(t, res.Died, "first crossing reports the transition")
	require.True(t, res.Dead)
	assert.Equal(t, 0, res.Health)
	assert.Equal(t, GifDeath, res.Gif)

	// No later input changes anything while dead, and Died never re-fires.
	happy := focusedSample()
	happy.Emotion = "happy"
	for i := 1; i < 20; i++ {
		res = m.Step(happy, base.Add(time.Duration(i)*5*time.Second))
		require.False(t, res.Died)
		require.Equal(t, GifDeath, res.Gif)
		require.Equal(t, 0, res.Health)
	}
}

func TestResetBlockedDuringDeathLock(t *testing.T) {
	t.Parallel()

	base := time.Now()
	m := NewMachine(Config{InitialHealth: 5})

	res := m.Step(distractedSample(), base)
	require.True(t, res.Died)

	assert.False(t, m.Reset(base.Add(5*time.Second)), "death animation lock holds for 12s")
	assert.True(t, m.Dead())

	assert.True(t, m.Reset(base.Add(12*time.Second)))
	assert.False(t, m.Dead())
	assert.Equal(t, MaxHealth, m.Health())

	res = m.Step(focusedSample(), base.Add(13*time.Second))
	assert.Equal(t, GifIdle, res.Gif)
}
