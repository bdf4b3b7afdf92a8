// Package productivity classifies a browser tab as productive or
// distracting. Two independent strategies: static allow/deny lists keyed by
// domain substring when no goal text is supplied, and a goal-keyword
// heuristic when the caller knows what the user is supposed to be doing.
package productivity

import (
	"fmt"
	"strings"
)

type Result struct {
	IsProductive bool   `json:"is_productive"`
	Message      string `json:"message"`
}

// Category domain lists. Matching is by substring so subdomains and country
// variants (de.wikipedia.org, m.youtube.com) hit without enumeration.
var categoryDomains = map[string][]string{
	"learning": {
		"coursera.org", "udemy.com", "khanacademy.org", "edx.org",
		"duolingo.com", "leetcode.com", "codecademy.com", "brilliant.org",
		"wikipedia.org", "freecodecamp.org",
	},
	"productivity": {
		"github.com", "stackoverflow.com", "notion.so", "docs.google.com",
		"trello.com", "linear.app", "slack.com", "figma.com", "calendar.google.com",
	},
	"fitness": {
		"strava.com", "myfitnesspal.com", "fitbit.com", "mapmyrun.com",
		"nike.com", "garmin.com",
	},
	"reading": {
		"goodreads.com", "medium.com", "substack.com", "audible.com",
		"gutenberg.org",
	},
}

var unproductiveDomains = []string{
	"facebook.com", "instagram.com", "twitter.com", "x.com", "tiktok.com",
	"youtube.com", "reddit.com", "netflix.com", "twitch.tv", "9gag.com",
	"buzzfeed.com", "pinterest.com",
}

// Goal keywords to category. Lower-cased goal text is scanned for these.
var goalKeywords = map[string]string{
	"learn":    "learning",
	"study":    "learning",
	"course":   "learning",
	"class":    "learning",
	"tutorial": "learning",
	"work":     "productivity",
	"project":  "productivity",
	"task":     "productivity",
	"code":     "productivity",
	"build":    "productivity",
	"exercise": "fitness",
	"workout":  "fitness",
	"gym":      "fitness",
	"fitness":  "fitness",
	"train":    "fitness",
	"read":     "reading",
	"book":     "reading",
	"article":  "reading",
}

// Check classifies rawURL against the user's goals. An empty goal list
// falls back to the static lists alone.
func Check(rawURL string, goals []string) Result {
	domain := extractDomain(rawURL)
	if domain == "" {
		return Result{IsProductive: true, Message: "no page to judge"}
	}

	if matchesAny(domain, unproductiveDomains) {
		return Result{
			IsProductive: false,
			Message:      fmt.Sprintf("%s is on the distraction list", domain),
		}
	}

	if len(goals) == 0 {
		if category := matchCategory(domain); category != "" {
			return Result{
				IsProductive: true,
				Message:      fmt.Sprintf("%s looks like %s time", domain, category),
			}
		}
		return Result{IsProductive: true, Message: domain + " is not on any distraction list"}
	}

	if category := goalCategory(goals); category != "" && matchesAny(domain, categoryDomains[category]) {
		return Result{
			IsProductive: true,
			Message:      fmt.Sprintf("%s matches your %s goal", domain, category),
		}
	}

	if matchesGoalWords(domain, goals) {
		return Result{
			IsProductive: true,
			Message:      fmt.Sprintf("%s relates to what you said you were doing", domain),
		}
	}

	return Result{
		IsProductive: false,
		Message:      fmt.Sprintf("%s does not look related to your goals, back to distraction-free work", domain),
	}
}

func matchCategory(domain string) string {
	for category, domains := range categoryDomains {
		if matchesAny(domain, domains) {
			return category
		}
	}
	return ""
}

func goalCategory(goals []string) string {
	joined := strings.ToLower(strings.Join(goals, " "))
	for keyword, category := range goalKeywords {
		if strings.Contains(joined, keyword) {
			return category
		}
	}
	return ""
}

// matchesGoalWords does the naive fallback: any goal word longer than three
// characters appearing in the domain counts as related.
func matchesGoalWords(domain string, goals []string) bool {
	for _, goal := range goals {
		for _, word := range strings.Fields(strings.ToLower(goal)) {
			word = strings.Trim(word, ".,!?\"'")
			if len(word) > 3 && strings.Contains(domain, word) {
				return true
			}
		}
	}
	return false
}

func matchesAny(domain string, candidates []string) bool {
	for _, candidate := range candidates {
		if strings.Contains(domain, candidate) {
			return true
		}
	}
	return false
}

func extractDomain(rawURL string) string {
	domain := strings.ToLower(strings.TrimSpace(rawURL))
	if domain == "" {
		return ""
	}
	if idx := strings.Index(domain, "://"); idx >= 0 {
		domain = domain[idx+3:]
	}
	if idx := strings.IndexAny(domain, "/?#"); idx >= 0 {
		domain = domain[:idx]
	}
	if idx := strings.Index(domain, "@"); idx >= 0 {
		domain = domain[idx+1:]
	}
	if idx := strings.Index(domain, ":"); idx >= 0 {
		domain = domain[:idx]
	}
	return strings.TrimPrefix(domain, "www.")
}
