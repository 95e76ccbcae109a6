package intent

import "strings"

// Category selects the template pair used for the "prompt" action.
type Category string

const (
	Technical     Category = "technical"
	Communication Category = "communication"
	Content       Category = "content"
	Scheduling    Category = "scheduling"
	General       Category = "general"
)

// Categories lists every category, General last.
var Categories = []Category{Technical, Communication, Content, Scheduling, General}

// Groups are checked in order; the first group with a matching keyword wins.
var groups = []struct {
	category Category
	keywords []string
}{
	{Technical, []string{"code", "program", "function", "algorithm", "api"}},
	{Communication, []string{"email", "message", "send"}},
	{Content, []string{"write", "create", "generate"}},
	{Scheduling, []string{"meeting", "schedule", "call"}},
}

// Classify maps text to a category by case-insensitive substring match.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.category
			}
		}
	}
	return General
}

// Parse returns the category named by s, or General.
func Parse(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return General
}
