package prompt

import "strings"

// Action is the request intent. Every action except Prompt is answered by
// the upstream model directly.
type Action string

const (
	Explain    Action = "explain"
	Summarize  Action = "summarize"
	Example    Action = "example"
	Compare    Action = "compare"
	AddContext Action = "add-context"
	Prompt     Action = "prompt"
)

// Actions lists every recognised action.
var Actions = []Action{Explain, Summarize, Example, Compare, AddContext, Prompt}

// ParseAction lowercases s, drops characters outside [a-z-] and returns the
// matching action. Anything unrecognised, including "", is Prompt.
func ParseAction(s string) Action {
	clean := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if (r >= 'a' && r <= 'z') || r == '-' {
			return r
		}
		return -1
	}, s)
	for _, a := range Actions {
		if Action(clean) == a {
			return a
		}
	}
	return Prompt
}

// Direct reports whether the action expects a single upstream answer.
func (a Action) Direct() bool { return a != Prompt }

func (a Action) String() string { return string(a) }
