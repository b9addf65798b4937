// Package postprocess strips common LLM artifacts from translation output
// before it is published to the session: reasoning blocks, prompt echoes,
// and quote wrapping.
package postprocess

import (
	"regexp"
	"strings"
)

// reasoningBlockRe matches complete <think>…</think> style blocks. Tag
// variants are listed explicitly because RE2 has no backreferences.
var reasoningBlockRe = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`,
)

// openReasoningRe matches a reasoning tag whose closing tag never arrived
// (the model was cut off mid-thought).
var openReasoningRe = regexp.MustCompile(`(?is)(?:<think>|<thinking>|<reasoning>).*$`)

// promptEchoRe matches introductory phrases some models prepend even when
// told not to. Anchored at the start and requiring a colon to avoid eating
// legitimate content.
var promptEchoRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course)[,.]? )?(?:here(?:'s| is)(?: the)? )?(?:the )?(?:translated text|translation)\s*:`,
)

// Clean returns text with reasoning blocks, prompt echoes, and wrapping
// quotes removed, trimmed of surrounding whitespace.
func Clean(text string) string {
	text = reasoningBlockRe.ReplaceAllString(text, "")
	text = openReasoningRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if loc := promptEchoRe.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[loc[1]:])
	}

	return unwrapQuotes(text)
}

// unwrapQuotes strips one matching pair of outer quotes when the whole text
// is wrapped in them.
func unwrapQuotes(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}

	pairs := map[rune]rune{
		'"':  '"',
		'\'': '\'',
		'«':  '»',
		'“':  '”', // “ ”
		'‘':  '’', // ‘ ’
	}
	if closing, ok := pairs[runes[0]]; ok && runes[n-1] == closing {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
