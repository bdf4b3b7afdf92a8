package roast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneForLevelBands(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		1:  "gentle",
		2:  "gentle",
		3:  "mild",
		4:  "mild",
		5:  "moderate",
		6:  "moderate",
		7:  "spicy",
		8:  "spicy",
		9:  "savage",
		10: "savage",
	}
	for level, want := range cases {
		assert.Equal(t, want, ToneForLevel(level), "level %d", level)
	}
}

func TestBuildRoastPromptIncludesContext(t *testing.T) {
	t.Parallel()

	prompt := buildRoastPrompt(Request{
		TargetName: "Sam",
		Level:      9,
		Goal:       "finish the lab report",
		TabURL:     "https://reddit.com/r/aww",
		EventType:  "eye_movement",
		EventValue: "distracted",
		Ticks:      []string{"falls asleep in standup", ""},
	})

	assert.Contains(t, prompt, "savage")
	assert.Contains(t, prompt, "Sam")
	assert.Contains(t, prompt, "finish the lab report")
	assert.Contains(t, prompt, "reddit.com")
	assert.Contains(t, prompt, "eye_movement=distracted")
	assert.Contains(t, prompt, "falls asleep in standup")
}

func TestBuildRoastPromptWithoutTarget(t *testing.T) {
	t.Parallel()

	prompt := buildRoastPrompt(Request{Level: 1})
	assert.Contains(t, prompt, "gentle")
	assert.Contains(t, prompt, "this user")
}

func TestParseYesNo(t *testing.T) {
	t.Parallel()

	yes, err := parseYesNo("Yes.")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := parseYesNo("  no ")
	require.NoError(t, err)
	assert.False(t, no)

	_, err = parseYesNo("it depends")
	require.ErrorIs(t, err, ErrInvalidResponse)
}
