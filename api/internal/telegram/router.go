package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"promptify/api/internal/generate"
	"promptify/api/internal/llm"
	"promptify/api/internal/prompt"
	"promptify/api/internal/util"
)

const maxMessage = 3900

// Sender is the part of *tgbotapi.BotAPI the router uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Router struct {
	Bot     Sender
	Gen     *generate.Service
	Engines *llm.Engines
	Timeout time.Duration
	Log     *zap.Logger
}

var commandActions = map[string]prompt.Action{
	"explain":    prompt.Explain,
	"summarize":  prompt.Summarize,
	"example":    prompt.Example,
	"addcontext": prompt.AddContext,
	"compare":    prompt.Compare,
}

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, *upd.CallbackQuery)
		return
	}
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.HandleCommand(ctx, upd.Message)
		return
	}
	text := strings.TrimSpace(upd.Message.Text)
	if text == "" {
		return
	}
	cid := upd.Message.Chat.ID
	setLastText(cid, text)
	r.run(ctx, cid, generate.Request{UserText: text, Action: string(getMode(cid))})
}

func (r *Router) HandleCommand(ctx context.Context, m *tgbotapi.Message) {
	cid := m.Chat.ID
	cmd := strings.ToLower(m.Command())
	args := strings.TrimSpace(m.CommandArguments())

	if a, ok := commandActions[cmd]; ok {
		req, usage := commandRequest(a, args)
		if usage != "" {
			r.send(cid, usage)
			return
		}
		r.run(ctx, cid, req)
		return
	}

	switch cmd {
	case "start", "help":
		r.send(cid, helpText)
	case "mode":
		if args == "" {
			r.send(cid, "Current mode: "+string(getMode(cid)))
			return
		}
		a := prompt.ParseAction(args)
		setMode(cid, a)
		r.send(cid, "Mode set to: "+string(a))
	case "context":
		setContext(cid, args)
		if args == "" {
			r.send(cid, "Context cleared.")
			return
		}
		r.send(cid, "Context saved. It will be used for direct actions.")
	case "engine":
		r.handleEngineCommand(cid, args)
	default:
		r.send(cid, "Unknown command. Try /help")
	}
}

// commandRequest builds the request for a direct-action command. A
// non-empty usage string means the arguments were not usable.
func commandRequest(a prompt.Action, args string) (req generate.Request, usage string) {
	req = generate.Request{UserText: args, Action: string(a)}
	if a == prompt.Compare {
		t1, t2, ok := splitCompare(args)
		if !ok {
			return req, "Usage: /compare <text 1> || <text 2>"
		}
		req.Text1, req.Text2 = t1, t2
		req.UserText = fmt.Sprintf("TEXT 1: \"%s\"\n\nTEXT 2: \"%s\"", t1, t2)
	}
	if strings.TrimSpace(req.UserText) == "" {
		return req, "Usage: /" + commandName(a) + " <text>"
	}
	return req, ""
}

func commandName(a prompt.Action) string {
	for name, x := range commandActions {
		if x == a {
			return name
		}
	}
	return string(a)
}

// splitCompare splits "a || b" into its two trimmed halves.
func splitCompare(s string) (string, string, bool) {
	a, b, ok := strings.Cut(s, "||")
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a, b, ok && a != "" && b != ""
}

func (r *Router) handleEngineCommand(chatID int64, args string) {
	if r.Engines == nil {
		r.send(chatID, "No model providers are configured.")
		return
	}
	if args == "" {
		cur := getEngine(chatID)
		if cur == "" {
			cur = "default"
		}
		r.send(chatID, "Current engine: "+cur+"\nAvailable: "+strings.Join(r.Engines.Names(), " | "))
		return
	}
	name := strings.ToLower(strings.Fields(args)[0])
	e, err := r.Engines.GetEngine(name)
	if err != nil {
		r.send(chatID, err.Error())
		return
	}
	setEngine(chatID, e.Name())
	r.send(chatID, "Switched to: "+e.Name()+" ("+e.GetModel()+")")
}

func (r *Router) handleCallback(ctx context.Context, cb tgbotapi.CallbackQuery) {
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	cid := cb.Message.Chat.ID
	a, ok := actionFromCallback(cb.Data)
	if !ok {
		return
	}
	text := getLastText(cid)
	if text == "" {
		r.send(cid, "Send the text again, I no longer have it.")
		return
	}
	r.run(ctx, cid, generate.Request{UserText: text, Action: string(a)})
}

func (r *Router) run(ctx context.Context, chatID int64, req generate.Request) {
	if req.Action != string(prompt.Prompt) && req.Context == "" {
		req.Context = getContext(chatID)
	}
	req.Provider = getEngine(chatID)

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 70 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := r.Gen.Generate(ctx, req)
	if err != nil {
		r.logger().Warn("telegram generate failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.SendError(chatID, err)
		return
	}
	switch v := res.(type) {
	case generate.PromptPair:
		for i, p := range v.Prompts {
			r.send(chatID, util.Truncate(fmt.Sprintf("Prompt %d:\n\n%s", i+1, p), maxMessage))
		}
		msg := tgbotapi.NewMessage(chatID, "Or act on the text directly:")
		msg.ReplyMarkup = actionKeyboard()
		_, _ = r.Bot.Send(msg)
	case generate.DirectResponse:
		r.send(chatID, util.Truncate(v.Text, maxMessage))
	}
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) SendError(chatID int64, err error) {
	var ve *generate.ValidationError
	var uf *generate.UpstreamFailure
	switch {
	case errors.As(err, &ve):
		r.send(chatID, ve.Message)
	case errors.As(err, &uf):
		r.send(chatID, "Could not get an AI response: "+uf.Err.Error())
	default:
		r.send(chatID, "Something went wrong, try again later.")
	}
}
