package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptify/api/internal/generate"
	"promptify/api/internal/llm"
	"promptify/api/internal/prompt"
	"promptify/api/internal/spell"
)

type fakeBot struct {
	mu   sync.Mutex
	sent []string
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeClient struct {
	out  string
	err  error
	seen []string
}

func (f *fakeClient) Name() string     { return "fake" }
func (f *fakeClient) GetModel() string { return "fake-1" }
func (f *fakeClient) Generate(_ context.Context, instruction string) (string, error) {
	f.seen = append(f.seen, instruction)
	return f.out, f.err
}

func newRouter(c llm.Client) (*Router, *fakeBot) {
	var engines *llm.Engines
	if c != nil {
		engines = llm.NewEngines(c.Name(), c)
	}
	bot := &fakeBot{}
	return &Router{
		Bot:     bot,
		Gen:     generate.NewService(spell.NewNormalizer(nil, nil, nil), engines, time.Second, zap.NewNop()),
		Engines: engines,
		Log:     zap.NewNop(),
	}, bot
}

func message(chatID int64, text string) tgbotapi.Update {
	m := &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID}}
	if strings.HasPrefix(text, "/") {
		n := len(text)
		if i := strings.IndexByte(text, ' '); i > 0 {
			n = i
		}
		m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: n}}
	}
	return tgbotapi.Update{Message: m}
}

func TestSplitCompare(t *testing.T) {
	a, b, ok := splitCompare(" cats are pets || dogs are pets ")
	require.True(t, ok)
	assert.Equal(t, "cats are pets", a)
	assert.Equal(t, "dogs are pets", b)

	_, _, ok = splitCompare("only one")
	assert.False(t, ok)
	_, _, ok = splitCompare("x ||  ")
	assert.False(t, ok)
}

func TestCommandRequest(t *testing.T) {
	req, usage := commandRequest(prompt.Compare, "a || b")
	assert.Empty(t, usage)
	assert.Equal(t, "a", req.Text1)
	assert.Equal(t, "b", req.Text2)

	_, usage = commandRequest(prompt.AddContext, "  ")
	assert.Equal(t, "Usage: /addcontext <text>", usage)
}

func TestActionFromCallback(t *testing.T) {
	a, ok := actionFromCallback("act:summarize")
	assert.True(t, ok)
	assert.Equal(t, prompt.Summarize, a)

	_, ok = actionFromCallback("act:prompt")
	assert.False(t, ok)
	_, ok = actionFromCallback("hint_next")
	assert.False(t, ok)
}

func TestRetryDelayFromError(t *testing.T) {
	assert.Equal(t, time.Duration(0), retryDelayFromError(nil))
	assert.Equal(t, 7*time.Second, retryDelayFromError(errors.New("Too Many Requests: retry after 7")))
	assert.Equal(t, 3*time.Second, retryDelayFromError(errors.New("too many requests")))
	assert.Equal(t, time.Second, retryDelayFromError(errors.New("bad gateway")))
}

func TestPlainTextPromptPair(t *testing.T) {
	r, bot := newRouter(nil)
	r.HandleUpdate(context.Background(), message(1001, "write a poem about the sea"))

	require.Len(t, bot.sent, 3)
	assert.True(t, strings.HasPrefix(bot.sent[0], "Prompt 1:"))
	assert.True(t, strings.HasPrefix(bot.sent[1], "Prompt 2:"))
	assert.Contains(t, bot.sent[0], "write a poem about the sea")
	assert.Equal(t, "write a poem about the sea", getLastText(1001))
}

func TestModeAndContext(t *testing.T) {
	fc := &fakeClient{out: "explained"}
	r, bot := newRouter(fc)
	ctx := context.Background()

	r.HandleUpdate(ctx, message(1002, "/mode explain"))
	r.HandleUpdate(ctx, message(1002, "/context Go programming"))
	r.HandleUpdate(ctx, message(1002, "what is a channel"))

	require.Len(t, fc.seen, 1)
	assert.Contains(t, fc.seen[0], `Here is the context of the following question: "Go programming"`)
	assert.Equal(t, "explained", bot.sent[len(bot.sent)-1])

	r.HandleUpdate(ctx, message(1002, "/context"))
	assert.Empty(t, getContext(1002))
	r.HandleUpdate(ctx, message(1002, "/mode"))
	assert.Equal(t, "Current mode: explain", bot.sent[len(bot.sent)-1])
}

func TestCompareCommand(t *testing.T) {
	fc := &fakeClient{out: "both are pets"}
	r, bot := newRouter(fc)

	r.HandleUpdate(context.Background(), message(1003, "/compare cats are pets || dogs are pets"))
	require.Len(t, fc.seen, 1)
	assert.Contains(t, fc.seen[0], `TEXT 1: "cats are pets"`)
	assert.Contains(t, fc.seen[0], `TEXT 2: "dogs are pets"`)
	assert.Equal(t, []string{"both are pets"}, bot.sent)

	r.HandleUpdate(context.Background(), message(1003, "/compare nothing"))
	assert.Equal(t, "Usage: /compare <text 1> || <text 2>", bot.sent[len(bot.sent)-1])
}

func TestDirectFailureMessage(t *testing.T) {
	fc := &fakeClient{err: llm.NewUpstreamError("fake", http.StatusTooManyRequests, "")}
	r, bot := newRouter(fc)

	r.HandleUpdate(context.Background(), message(1004, "/explain recursion"))
	require.Len(t, bot.sent, 1)
	assert.Contains(t, bot.sent[0], "rate limit exceeded")
}

func TestCallbackUsesLastText(t *testing.T) {
	fc := &fakeClient{out: "summary"}
	r, bot := newRouter(fc)
	setLastText(1005, "a long article")

	r.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    "act:summarize",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1005}},
	}})
	require.Len(t, fc.seen, 1)
	assert.Contains(t, fc.seen[0], "a long article")
	assert.Equal(t, []string{"summary"}, bot.sent)
}

func TestEngineCommand(t *testing.T) {
	r, bot := newRouter(&fakeClient{})
	r.HandleUpdate(context.Background(), message(1006, "/engine fake"))
	assert.Equal(t, "fake", getEngine(1006))
	assert.Equal(t, "Switched to: fake (fake-1)", bot.sent[0])

	r.HandleUpdate(context.Background(), message(1006, "/engine nope"))
	assert.Contains(t, bot.sent[1], "unknown llm provider")
}

type fakeUpdater struct {
	calls  int
	cancel context.CancelFunc
}

func (f *fakeUpdater) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	f.calls++
	switch f.calls {
	case 1:
		return []tgbotapi.Update{{UpdateID: 5}, {UpdateID: 6}}, nil
	default:
		if cfg.Offset != 7 {
			return nil, errors.New("wrong offset")
		}
		f.cancel()
		return nil, nil
	}
}

func TestRunPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	up := &fakeUpdater{cancel: cancel}

	var got []int
	RunPolling(ctx, up, zap.NewNop(), func(u tgbotapi.Update) { got = append(got, u.UpdateID) })
	assert.Equal(t, []int{5, 6}, got)
	assert.Equal(t, 2, up.calls)
}
