package generate

import (
	"encoding/json"
	"fmt"

	"promptify/api/internal/llm"
	"promptify/api/internal/prompt"
)

// Result is either a PromptPair or a DirectResponse.
type Result interface {
	isResult()
}

// Source values for PromptPair.
const (
	SourceUpstream = "upstream"
	SourceTemplate = "template"
)

// PromptPair answers the prompt action. It encodes as a bare two-element
// JSON array.
type PromptPair struct {
	Prompts prompt.Pair
	Source  string
}

func (PromptPair) isResult() {}

func (p PromptPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Prompts)
}

// DirectResponse carries the model's answer for a direct action.
type DirectResponse struct {
	Action prompt.Action
	Text   string
}

func (DirectResponse) isResult() {}

func (d DirectResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string `json:"kind"`
		Action   string `json:"action"`
		Response string `json:"response"`
	}{"direct", string(d.Action), d.Text})
}

// ValidationError rejects a request before any work is done.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UpstreamFailure is a terminal upstream error on a direct action.
type UpstreamFailure struct {
	Action prompt.Action
	Err    error
}

func (e *UpstreamFailure) Error() string {
	return fmt.Sprintf("failed to get AI response for %s: %v", e.Action, e.Err)
}

func (e *UpstreamFailure) Unwrap() error { return e.Err }

// Kind is the machine-readable failure class, e.g. "rate_limit".
func (e *UpstreamFailure) Kind() string { return llm.KindOf(e.Err) }
