package text

import (
	"strings"
	"unicode/utf8"
)

// WidthFunc returns the rendered width of s in the current font
type WidthFunc func(s string) float64

// SplitTextToLines breaks text into lines no wider than maxWidth. Explicit
// newlines always start a new line, words wider than maxWidth are broken
// between runes. Empty text yields no lines.
func SplitTextToLines(text string, maxWidth float64, width WidthFunc) []string {
	text = strings.TrimRight(text, " \t\r\n")
	if text == "" {
		return nil
	}
	if maxWidth <= 0 {
		return strings.Split(text, "\n")
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, maxWidth, width)...)
	}
	return lines
}

func wrapParagraph(para string, maxWidth float64, width WidthFunc) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines   []string
		current string
	)
	for _, word := range words {
		if current == "" {
			current = word
		} else if candidate := current + " " + word; width(candidate) <= maxWidth {
			current = candidate
			continue
		} else {
			lines = append(lines, current)
			current = word
		}
		// a single word may itself be too wide
		for width(current) > maxWidth {
			head, tail := breakWord(current, maxWidth, width)
			lines = append(lines, head)
			current = tail
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// breakWord splits word at the longest prefix that fits, always taking at
// least one rune so progress is guaranteed
func breakWord(word string, maxWidth float64, width WidthFunc) (string, string) {
	cut := 0
	for i := range word {
		if i == 0 {
			continue
		}
		if width(word[:i]) > maxWidth {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(word)
		cut = size
	}
	return word[:cut], word[cut:]
}
