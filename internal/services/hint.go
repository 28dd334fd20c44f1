package services

import "strings"

// DefaultHintWordCount bounds how much of a line the next writer sees.
const DefaultHintWordCount = 3

// ComputeHint returns the last wordCount words of text, rejoined with
// single spaces. Runs of whitespace collapse; text shorter than the
// window is returned whole. Pure and total: empty input yields "".
func ComputeHint(text string, wordCount int) string {
	tokens := strings.Fields(strings.TrimSpace(text))
	if len(tokens) <= wordCount {
		return strings.Join(tokens, " ")
	}
	return strings.Join(tokens[len(tokens)-wordCount:], " ")
}
