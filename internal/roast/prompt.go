package roast

import (
	"fmt"
	"strings"
)

// ToneForLevel maps the group's 1-10 roast level to a tone band.
func ToneForLevel(level int) string {
	switch {
	case level <= 2:
		return "gentle"
	case level <= 4:
		return "mild"
	case level <= 6:
		return "moderate"
	case level <= 8:
		return "spicy"
	default:
		return "savage"
	}
}

func buildRoastPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You write short roasts for a goal-tracking app where a group's virtual pet loses health when someone slacks off.\n")
	fmt.Fprintf(&b, "Write one %s roast (1-2 sentences, no apologies, no hashtags) aimed at %s.\n", ToneForLevel(req.Level), displayName(req.TargetName))
	if req.EventType != "" {
		fmt.Fprintf(&b, "They were just caught: %s=%s.\n", req.EventType, req.EventValue)
	}
	if strings.TrimSpace(req.TabURL) != "" {
		fmt.Fprintf(&b, "They were browsing %s.\n", strings.TrimSpace(req.TabURL))
	}
	if strings.TrimSpace(req.Goal) != "" {
		fmt.Fprintf(&b, "Their stated goal is: %s.\n", strings.TrimSpace(req.Goal))
	}
	if len(req.Ticks) > 0 {
		b.WriteString("Things their group has observed about them:\n")
		for _, tick := range req.Ticks {
			tick = strings.TrimSpace(tick)
			if tick == "" {
				continue
			}
			fmt.Fprintf(&b, "- %s\n", tick)
		}
	}
	b.WriteString("Output only the roast text.")
	return b.String()
}

func buildAlignmentPrompt(tabURL string, goal string) string {
	return fmt.Sprintf(
		"Does browsing the URL %q plausibly help with the goal %q? Answer with exactly one word: yes or no.",
		strings.TrimSpace(tabURL),
		strings.TrimSpace(goal),
	)
}

func parseYesNo(content string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(content))
	normalized = strings.Trim(normalized, ".!\"'")
	switch {
	case strings.HasPrefix(normalized, "yes"):
		return true, nil
	case strings.HasPrefix(normalized, "no"):
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected yes/no, got %q", ErrInvalidResponse, content)
	}
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "this user"
	}
	return name
}
