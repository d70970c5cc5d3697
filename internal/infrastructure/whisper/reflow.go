package whisper

import (
	"regexp"
	"strings"
)

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// Reflow groups every perParagraph sentence-terminated clauses into a
// paragraph separated by a blank line. Cosmetic only: the text itself is
// never altered beyond whitespace between sentences.
func Reflow(text string, perParagraph int) string {
	if perParagraph < 1 {
		perParagraph = 1
	}

	sentences := splitSentences(strings.TrimSpace(text))
	if len(sentences) == 0 {
		return ""
	}

	var lines []string
	for i, sentence := range sentences {
		lines = append(lines, sentence)
		if (i+1)%perParagraph == 0 && i+1 < len(sentences) {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

// splitSentences cuts the text after each terminator (. ! ?) followed by
// whitespace, keeping the terminator with its sentence.
func splitSentences(text string) []string {
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// loc[0] is the terminator, loc[1] the end of the trailing whitespace.
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}
