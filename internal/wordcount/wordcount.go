// Package wordcount measures and bounds prose by word count.
//
// A word is a maximal run of Unicode letters, digits or underscores, so
// "don't" counts as two words and punctuation-only tokens count as none.
// The count is an approximation used for relative clamping, not a tokenizer.
package wordcount

import (
	"regexp"
	"strings"
)

var (
	wordPattern      = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	paragraphPattern = regexp.MustCompile(`\n[ \t\r]*\n`)
)

// Count returns the number of words in text.
func Count(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}

// Paragraphs splits text on blank lines. Paragraphs are trimmed and empty
// ones are dropped.
func Paragraphs(text string) []string {
	parts := paragraphPattern.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Join is the inverse of Paragraphs: one blank line between paragraphs.
func Join(paragraphs []string) string {
	return strings.Join(paragraphs, "\n\n")
}

// CountAll sums the word counts of paragraphs.
func CountAll(paragraphs []string) int {
	total := 0
	for _, p := range paragraphs {
		total += Count(p)
	}
	return total
}

// Clamp bounds text to at most maximum words.
//
// Whole paragraphs are kept while they fit. The first paragraph that would
// overflow is cut at a whitespace token boundary to use up the remaining
// budget and nothing after it is kept. When the very first paragraph is
// already over budget, paragraph structure is abandoned and the whole text
// is cut to the budget instead.
//
// Clamp is idempotent: Clamp(Clamp(t, n), n) == Clamp(t, n).
func Clamp(text string, maximum int) string {
	if maximum <= 0 {
		return ""
	}

	paragraphs := Paragraphs(text)
	if len(paragraphs) == 0 {
		return ""
	}
	if Count(paragraphs[0]) > maximum {
		return truncateTokens(strings.Join(paragraphs, " "), maximum)
	}

	kept := make([]string, 0, len(paragraphs))
	total := 0
	for _, p := range paragraphs {
		n := Count(p)
		if total+n <= maximum {
			kept = append(kept, p)
			total += n
			continue
		}
		if remaining := maximum - total; remaining > 0 {
			if cut := truncateTokens(p, remaining); cut != "" {
				kept = append(kept, cut)
			}
		}
		break
	}
	return Join(kept)
}

// truncateTokens keeps leading whitespace-separated tokens of text while
// their combined word count stays within budget. Tokens are rejoined with
// single spaces.
func truncateTokens(text string, budget int) string {
	tokens := strings.Fields(text)
	used := 0
	end := 0
	for end < len(tokens) {
		n := Count(tokens[end])
		if used+n > budget {
			break
		}
		used += n
		end++
	}
	return strings.Join(tokens[:end], " ")
}
