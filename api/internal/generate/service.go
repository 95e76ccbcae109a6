// Package generate dispatches a generation request through spelling
// normalisation, classification, templating, the upstream model and
// response coercion.
package generate

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"promptify/api/internal/coerce"
	"promptify/api/internal/intent"
	"promptify/api/internal/llm"
	"promptify/api/internal/prompt"
	"promptify/api/internal/spell"
	"promptify/api/internal/util"
)

// Request is one inbound generation call.
type Request struct {
	UserText string
	Action   string
	Context  string
	Text1    string
	Text2    string
	// Provider picks a registered llm engine; empty means the default.
	Provider string
}

type Service struct {
	norm    *spell.Normalizer
	engines *llm.Engines
	timeout time.Duration
	log     *zap.Logger
}

func NewService(norm *spell.Normalizer, engines *llm.Engines, timeout time.Duration, log *zap.Logger) *Service {
	if norm == nil {
		norm = spell.NewNormalizer(nil, nil, log)
	}
	if engines == nil {
		engines = llm.NewEngines("")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{norm: norm, engines: engines, timeout: timeout, log: log}
}

// Generate runs req. The prompt action always yields a PromptPair; direct
// actions yield a DirectResponse or an *UpstreamFailure.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.UserText) == "" {
		return nil, &ValidationError{Field: "userText", Message: "userText is required."}
	}
	action := prompt.ParseAction(req.Action)

	// An unconfigured default provider leaves client nil, which callers
	// treat as an unavailable upstream.
	client, err := s.engines.GetEngine(req.Provider)
	if err != nil && req.Provider != "" {
		return nil, &ValidationError{Field: "provider", Message: err.Error()}
	}

	text := s.norm.Normalize(req.UserText)
	log := s.log.With(zap.String("action", string(action)), zap.String("text", util.Short(text)))
	if client != nil {
		log = log.With(zap.String("llm", client.Name()), zap.String("model", client.GetModel()))
	}

	if action == prompt.Prompt {
		return s.promptPair(ctx, log, client, text), nil
	}
	return s.direct(ctx, log, client, action, text, req)
}

type pairStrategy struct {
	name string
	run  func(ctx context.Context) (prompt.Pair, bool)
}

func (s *Service) promptPair(ctx context.Context, log *zap.Logger, client llm.Client, text string) PromptPair {
	category := intent.Classify(text)
	local := prompt.RenderPair(text, category)
	log = log.With(zap.String("category", string(category)))

	strategies := []pairStrategy{
		{SourceUpstream, func(ctx context.Context) (prompt.Pair, bool) {
			raw, err := llm.Call(ctx, client, prompt.RefineInstruction(text, local), s.timeout)
			if err != nil {
				log.Warn("upstream refine failed, using local template", zap.String("kind", llm.KindOf(err)), zap.Error(err))
				return prompt.Pair{}, false
			}
			pair, parsed := coerce.Pair(raw)
			if !parsed {
				log.Warn("upstream response is not a pair", zap.String("raw", util.Short(raw)))
			}
			return pair, true
		}},
		{SourceTemplate, func(context.Context) (prompt.Pair, bool) {
			return local, true
		}},
	}
	for _, st := range strategies {
		if pair, ok := st.run(ctx); ok {
			log.Info("prompt pair generated", zap.String("source", st.name))
			return PromptPair{Prompts: pair, Source: st.name}
		}
	}
	return PromptPair{Prompts: local, Source: SourceTemplate}
}

func (s *Service) direct(ctx context.Context, log *zap.Logger, client llm.Client, action prompt.Action, text string, req Request) (Result, error) {
	instruction := prompt.RenderDirective(action, text, strings.TrimSpace(req.Context), strings.TrimSpace(req.Text1), strings.TrimSpace(req.Text2))
	raw, err := llm.Call(ctx, client, instruction, s.timeout)
	if err != nil {
		log.Warn("direct action failed", zap.String("kind", llm.KindOf(err)), zap.Error(err))
		return nil, &UpstreamFailure{Action: action, Err: err}
	}
	log.Info("direct response generated", zap.Int("len", len(raw)))
	return DirectResponse{Action: action, Text: coerce.Single(raw)}, nil
}
