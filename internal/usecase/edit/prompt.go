package edit

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxContextRunes bounds the document text sent with analysis and ask prompts.
const maxContextRunes = 24000

func analysisPrompt(instruction, text string) string {
	return fmt.Sprintf(`You locate the part of a document an editing instruction refers to.
Return ONLY a JSON object, no prose and no code fences:
{"keywords": "<short phrase copied from the document that identifies the target>", "scope": "inline" | "block", "isGlobal": true | false}

Use "inline" when the instruction targets a sentence or phrase, "block" for a paragraph or section.
Set "isGlobal" to true when the instruction applies to the whole document (for example "fix all typos").

Instruction: %q

Document:
---
%s
---
`, instruction, clip(text))
}

func rewritePrompt(instruction, markup string) string {
	return fmt.Sprintf(`You rewrite a fragment of an HTML document according to an instruction.
Return ONLY the rewritten HTML fragment. Keep the same element structure and tags
where possible. Do not add explanations. Do not wrap the output in code fences.

Instruction: %q

Fragment:
%s
`, instruction, markup)
}

func replacePrompt(instruction, text, fileName string) string {
	return fmt.Sprintf(`You are a JSON data extraction engine, not a chatbot.
Compare the original text with the instruction and output a JSON array of changes.

Instruction: %q
Original Text: %q
Context File: %q

OUTPUT FORMAT:
[
  {"original": "exact substring to replace", "replacement": "new text"}
]

RULES:
1. Output must start with '[' and end with ']'.
2. No preamble, no markdown code blocks.
3. If no changes are needed, output [].
4. "original" must match the input exactly (case-sensitive).
5. Keep "original" and "replacement" on a single line.
`, instruction, clip(text), fileName)
}

func askPrompt(question, text string) string {
	return fmt.Sprintf(`You are a helpful writing assistant with access to the user's document.

Document:
---
%s
---

User question: %s

If the user asks for an edit, remind them that edits are made through the edit command.
Answer conversationally. Markdown is allowed.
`, clip(text), question)
}

func clip(s string) string {
	if utf8.RuneCountInString(s) <= maxContextRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxContextRunes])) + "\n[...]"
}
