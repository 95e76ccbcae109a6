// Package llm is the upstream model caller: a provider-neutral client
// interface, typed failures and a single-attempt call with a timeout.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultTimeout bounds one upstream call.
const DefaultTimeout = 30 * time.Second

// Client generates text from a single instruction.
type Client interface {
	Name() string
	GetModel() string
	Generate(ctx context.Context, instruction string) (string, error)
}

// Call makes one attempt against c, bounded by timeout. Failures come back
// as ErrUnavailable, ErrTimeout, ErrEmptyResponse or *UpstreamError; other
// transport errors are wrapped with the provider name.
func Call(ctx context.Context, c Client, instruction string, timeout time.Duration) (string, error) {
	if c == nil {
		return "", ErrUnavailable
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := c.Generate(ctx, instruction)
	if err != nil {
		var ue *UpstreamError
		switch {
		case errors.Is(err, ErrUnavailable), errors.As(err, &ue):
			return "", err
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", fmt.Errorf("%s after %s: %w", c.Name(), timeout, ErrTimeout)
		default:
			return "", fmt.Errorf("%s: %w", c.Name(), err)
		}
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%s: %w", c.Name(), ErrEmptyResponse)
	}
	return out, nil
}

// Engines holds the configured providers by name.
type Engines struct {
	def     string
	clients map[string]Client
}

// NewEngines registers clients under their Name. def names the provider
// used when a caller does not pick one.
func NewEngines(def string, clients ...Client) *Engines {
	e := &Engines{def: def, clients: make(map[string]Client, len(clients))}
	for _, c := range clients {
		if c != nil {
			e.clients[c.Name()] = c
		}
	}
	return e
}

// GetEngine returns the named provider; "" selects the default.
func (e *Engines) GetEngine(name string) (Client, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = strings.ToLower(e.def)
	}
	if name == "openai" {
		name = "gpt"
	}
	if c, ok := e.clients[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q; use one of %s", name, strings.Join(e.Names(), ", "))
}

// Names lists registered providers in sorted order.
func (e *Engines) Names() []string {
	out := make([]string, 0, len(e.clients))
	for n := range e.clients {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
