package prompt

import "fmt"

const contextPreamble = "Here is the context of the following question: \"%s\"\n\n---\n\n"

var directives = map[Action]string{
	Explain: "Explain the following text clearly and accurately. Start with a one-sentence summary, " +
		"then explain the key ideas in plain language, defining any technical terms. " +
		"Use short paragraphs or bullets.\n\nTEXT:\n%s",
	Summarize: "Summarize the following text. Give the main point in one sentence, followed by " +
		"three to five bullet points covering the essential details. Do not add information " +
		"that is not in the text.\n\nTEXT:\n%s",
	Example: "Give two or three concrete, realistic examples that illustrate the following text. " +
		"Label each example and add one sentence on what it demonstrates.\n\nTEXT:\n%s",
	Compare: "Compare the following. Describe the key similarities and the key differences, " +
		"then give a short conclusion about when each applies. Use a table if it helps.\n\n%s",
	AddContext: "Add useful background context to the following text: relevant history, definitions, " +
		"related concepts and why it matters. Keep it accurate and concise.\n\nTEXT:\n%s",
}

// RenderDirective builds the single instruction sent upstream for a direct
// action. A non-empty context is prepended as a preamble. For Compare, two
// distinct fragments are labelled TEXT 1 and TEXT 2; otherwise text is used.
// Actions without a directive get text as is.
func RenderDirective(a Action, text, context, text1, text2 string) string {
	body := text
	if tmpl, ok := directives[a]; ok {
		subject := text
		if a == Compare && text1 != "" && text2 != "" && text1 != text2 {
			subject = fmt.Sprintf("TEXT 1: \"%s\"\n\nTEXT 2: \"%s\"", text1, text2)
		}
		body = fmt.Sprintf(tmpl, subject)
	}
	if context != "" {
		return fmt.Sprintf(contextPreamble, context) + body
	}
	return body
}
