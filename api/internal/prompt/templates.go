package prompt

import (
	"fmt"
	"strings"

	"promptify/api/internal/intent"
)

// Pair is two independently phrased prompts for the same input. Order is
// preserved for display numbering.
type Pair [2]string

type variant struct {
	role        string
	task        string
	constraints []string
	format      string
	goal        string
}

func (v variant) render(text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n\n", v.role)
	fmt.Fprintf(&b, "Task: %s\n\n", v.task)
	fmt.Fprintf(&b, "Context: The request to act on is:\n\"\"\"\n%s\n\"\"\"\n\n", text)
	b.WriteString("Constraints:\n")
	for _, c := range v.constraints {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	fmt.Fprintf(&b, "\nFormat: %s\n\n", v.format)
	fmt.Fprintf(&b, "Goal: %s", v.goal)
	return b.String()
}

var templates = map[intent.Category][2]variant{
	intent.Technical: {
		{
			role: "You are a senior software engineer who writes production-quality code.",
			task: "Carry out the request below directly. Produce the working solution itself, not a description of how someone else could produce it.",
			constraints: []string{
				"Use idiomatic, readable code with meaningful names",
				"Handle errors and edge cases explicitly",
				"State any assumption about language, runtime or versions",
				"Keep explanations short and after the code",
			},
			format: "A fenced code block with the complete solution followed by a brief explanation.",
			goal:   "Deliver code the user can run or paste in without further changes.",
		},
		{
			role: "You are a pragmatic technical lead reviewing and solving an engineering problem.",
			task: "Solve the request below step by step, then give the final implementation.",
			constraints: []string{
				"Break the problem into numbered steps before implementing",
				"Call out complexity, performance or security trade-offs",
				"Include a minimal usage example or test",
				"Do not invent APIs; say so when something is uncertain",
			},
			format: "Numbered reasoning steps, then the implementation in a fenced code block, then a usage example.",
			goal:   "Leave the user with a correct solution and a clear understanding of why it works.",
		},
	},
	intent.Communication: {
		{
			role: "You are a professional communications specialist.",
			task: "Write the message described below, ready to send.",
			constraints: []string{
				"Match a professional but friendly tone",
				"Open with the purpose in the first sentence",
				"Keep it under 200 words",
				"End with a clear next step or call to action",
			},
			format: "A subject line followed by the full message body.",
			goal:   "Produce a message the user can send as is.",
		},
		{
			role: "You are an executive assistant who drafts concise correspondence.",
			task: "Draft a short, polished message that accomplishes the request below.",
			constraints: []string{
				"Use plain language and short paragraphs",
				"Keep a courteous tone without filler",
				"Mention any date, time or deliverable explicitly",
				"Offer one alternative phrasing for the opening line",
			},
			format: "The message text, then a single line starting with \"Alternative opening:\".",
			goal:   "Get the recipient to understand and act on the message quickly.",
		},
	},
	intent.Content: {
		{
			role: "You are an experienced writer and editor.",
			task: "Create the piece of content described below in full.",
			constraints: []string{
				"Write for a general audience unless the request says otherwise",
				"Use a clear structure with a strong opening",
				"Avoid clichés and filler",
				"Keep facts accurate and avoid making up statistics",
			},
			format: "The finished content with a title and section headings where they help.",
			goal:   "Deliver publish-ready content that fulfils the request.",
		},
		{
			role: "You are a creative content strategist.",
			task: "Produce the requested content with a distinctive voice and a clear angle.",
			constraints: []string{
				"Pick one angle and state it in the first paragraph",
				"Vary sentence length for readability",
				"Use concrete examples rather than abstractions",
				"Close with a memorable final line",
			},
			format: "A headline, the content body, and a one-sentence summary at the end.",
			goal:   "Create content that is engaging as well as complete.",
		},
	},
	intent.Scheduling: {
		{
			role: "You are an efficient scheduling coordinator.",
			task: "Organise the meeting or event described below.",
			constraints: []string{
				"List the participants, date, time and duration that are known",
				"Flag any missing details that must be confirmed",
				"Propose a short agenda",
				"Keep it concise",
			},
			format: "A summary block (what, who, when, where) followed by the agenda as a bulleted list.",
			goal:   "Give the user everything needed to confirm the meeting.",
		},
		{
			role: "You are a personal assistant managing a busy calendar.",
			task: "Plan the request below and write the invitation for it.",
			constraints: []string{
				"Suggest two or three candidate time slots",
				"Include a one-line purpose for the meeting",
				"Note preparation needed from attendees",
				"Use a polite, direct tone",
			},
			format: "Candidate slots as a list, then the invitation text ready to send.",
			goal:   "Make scheduling the meeting a single step for the user.",
		},
	},
	intent.General: {
		{
			role: "You are a knowledgeable and helpful expert.",
			task: "Respond to the request below completely and accurately.",
			constraints: []string{
				"Answer the request directly before adding detail",
				"Be specific and avoid vague generalities",
				"State assumptions when the request is ambiguous",
				"Keep the answer focused",
			},
			format: "A direct answer followed by supporting detail in short paragraphs or bullets.",
			goal:   "Fully satisfy the request in a single response.",
		},
		{
			role: "You are a thoughtful analyst who explains things clearly.",
			task: "Work through the request below and give a well-structured response.",
			constraints: []string{
				"Organise the response with headings or numbered points",
				"Include an example where it helps understanding",
				"Point out limitations or caveats",
				"Finish with a short takeaway",
			},
			format: "Structured sections with a final \"Takeaway:\" line.",
			goal:   "Leave the user with a clear, usable answer.",
		},
	},
}

// RenderPair returns the two prompts of category c with text embedded
// verbatim. Unknown categories use the general pair.
func RenderPair(text string, c intent.Category) Pair {
	t, ok := templates[c]
	if !ok {
		t = templates[intent.General]
	}
	return Pair{t[0].render(text), t[1].render(text)}
}

// RefineInstruction asks the upstream model to improve the local pair into
// two executable prompts returned as a JSON array.
func RefineInstruction(text string, local Pair) string {
	var b strings.Builder
	b.WriteString("You are a world-class prompt engineer. Rewrite the user's raw input into two distinct, clear and EXECUTABLE prompts that another AI could carry out directly.\n\n")
	b.WriteString("Each prompt must instruct the AI to DO the work itself. Do not write prompts that ask for another prompt.\n\n")
	fmt.Fprintf(&b, "The user's input is:\n\n---\n%s\n---\n\n", text)
	b.WriteString("Follow the structure of these two reference prompts (Role, Task, Context, Constraints, Format, Goal), improving the wording for this input:\n\n")
	fmt.Fprintf(&b, "Reference 1:\n%s\n\nReference 2:\n%s\n\n", local[0], local[1])
	b.WriteString("Your response MUST be a valid JSON array containing exactly two strings, with no other text, commentary, or formatting.\n\n")
	b.WriteString("Example Response Format:\n[\"First generated prompt...\", \"Second generated prompt...\"]")
	return b.String()
}
