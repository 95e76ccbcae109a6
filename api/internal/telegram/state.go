package telegram

import (
	"sync"

	"promptify/api/internal/prompt"
)

var (
	chatMode    sync.Map // chatID -> prompt.Action used for plain text
	chatContext sync.Map // chatID -> string prepended to direct actions
	chatEngine  sync.Map // chatID -> llm provider name
	lastText    sync.Map // chatID -> string, last plain text for the action keyboard
)

func setMode(chatID int64, a prompt.Action) { chatMode.Store(chatID, a) }
func getMode(chatID int64) prompt.Action {
	if v, ok := chatMode.Load(chatID); ok {
		if a, _ := v.(prompt.Action); a != "" {
			return a
		}
	}
	return prompt.Prompt
}

func setContext(chatID int64, s string) {
	if s == "" {
		chatContext.Delete(chatID)
		return
	}
	chatContext.Store(chatID, s)
}
func getContext(chatID int64) string {
	v, _ := chatContext.Load(chatID)
	s, _ := v.(string)
	return s
}

func setEngine(chatID int64, name string) { chatEngine.Store(chatID, name) }
func getEngine(chatID int64) string {
	v, _ := chatEngine.Load(chatID)
	s, _ := v.(string)
	return s
}

func setLastText(chatID int64, s string) { lastText.Store(chatID, s) }
func getLastText(chatID int64) string {
	v, _ := lastText.Load(chatID)
	s, _ := v.(string)
	return s
}
