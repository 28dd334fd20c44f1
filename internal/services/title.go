package services

import (
	"math/rand"
	"strings"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
)

// FallbackTitle is used whenever no usable words can be drawn from the poem.
const FallbackTitle = "Untitled Dream"

// titleConnectors join the two chosen words. Selection is uniform, so
// order carries no meaning.
var titleConnectors = []string{
	"of the",
	"beneath",
	"against",
	"within the",
	"and the",
	"beyond",
	"through the",
	"among the",
}

const minSignificantWordLen = 3

// GenerateTitle derives a surrealist title from the first and last
// lines of the poem. Not deterministic: word and connector choices are
// uniform random draws.
func GenerateTitle(lines []*domain.PoemLine) string {
	if len(lines) == 0 {
		return FallbackTitle
	}

	firstWords := significantWords(lines[0].FullText)
	lastWords := significantWords(lines[len(lines)-1].FullText)
	if len(lines) == 1 {
		if len(firstWords) < 2 {
			return FallbackTitle
		}
		lastWords = firstWords
	}
	if len(firstWords) == 0 || len(lastWords) == 0 {
		return FallbackTitle
	}

	first := pickWord(firstWords, "Dream")
	last := pickWord(lastWords, "Vision")
	connector := pickWord(titleConnectors, "beneath")

	return capitalize(first) + " " + connector + " " + capitalize(last)
}

func significantWords(text string) []string {
	var words []string
	for _, tok := range strings.Fields(strings.TrimSpace(text)) {
		if len(tok) >= minSignificantWordLen {
			words = append(words, tok)
		}
	}
	return words
}

func pickWord(candidates []string, fallback string) string {
	if len(candidates) == 0 {
		return fallback
	}
	return candidates[rand.Intn(len(candidates))]
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	r := []rune(word)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
