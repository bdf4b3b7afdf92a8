package productivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticListsWithoutGoals(t *testing.T) {
	t.Parallel()

	res := Check("facebook.com", nil)
	assert.False(t, res.IsProductive)
	assert.Contains(t, res.Message, "distract")

	res = Check("coursera.org", nil)
	assert.True(t, res.IsProductive)
	assert.Contains(t, res.Message, "learning")

	res = Check("example.com", nil)
	assert.True(t, res.IsProductive, "unknown domains are innocent until listed")
}

func TestGoalCategoryMembership(t *testing.T) {
	t.Parallel()

	res := Check("https://www.udemy.com/course/go", []string{"study for my Go course"})
	assert.True(t, res.IsProductive)
	assert.Contains(t, res.Message, "learning")

	// Good site, wrong category for the stated goal, no substring overlap.
	res = Check("strava.com", []string{"study for my Go course"})
	assert.False(t, res.IsProductive)
}

func TestGoalSubstringFallback(t *testing.T) {
	t.Parallel()

	res := Check("golang.org", []string{"practice golang concurrency"})
	assert.True(t, res.IsProductive)

	res = Check("example.com", []string{"finish tax return"})
	assert.False(t, res.IsProductive)
}

func TestUnproductiveListBeatsGoals(t *testing.T) {
	t.Parallel()

	res := Check("https://m.youtube.com/watch?v=x", []string{"learn video editing"})
	assert.False(t, res.IsProductive)
	assert.Contains(t, res.Message, "distract")
}

func TestExtractDomain(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://www.facebook.com/feed":     "facebook.com",
		"http://docs.google.com/doc?id=1":   "docs.google.com",
		"coursera.org":                      "coursera.org",
		"https://user@example.com:8080/a/b": "example.com",
		"  ":                                "",
	}
	for input, want := range cases {
		assert.Equal(t, want, extractDomain(input), "input %q", input)
	}
}
