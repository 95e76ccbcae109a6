package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"promptify/api/internal/prompt"
)

const callbackPrefix = "act:"

// actionKeyboard offers the direct actions for the last message.
func actionKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := func(label string, a prompt.Action) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, callbackPrefix+string(a))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("Explain", prompt.Explain), btn("Summarize", prompt.Summarize)),
		tgbotapi.NewInlineKeyboardRow(btn("Example", prompt.Example), btn("Add context", prompt.AddContext)),
	)
}

// actionFromCallback parses "act:<action>" data.
func actionFromCallback(data string) (prompt.Action, bool) {
	if !strings.HasPrefix(data, callbackPrefix) {
		return "", false
	}
	a := prompt.ParseAction(strings.TrimPrefix(data, callbackPrefix))
	return a, a.Direct()
}

const helpText = `Send me any text and I will turn it into two ready-to-use prompts.

Commands:
/explain <text> - explain it
/summarize <text> - summarize it
/example <text> - give examples
/addcontext <text> - add background context
/compare <text 1> || <text 2> - compare two texts
/mode [prompt|explain|summarize|example|add-context] - what plain text does
/context [text] - set or clear context for direct actions
/engine [name] - pick the model provider`
