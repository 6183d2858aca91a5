// Package textmetrics measures rendered item bodies for the editor's
// character and word counters.
package textmetrics

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Text returns the text content of an HTML fragment with all markup
// removed. Script and style contents are not text.
func Text(input string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(input))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			if isRawTag(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawTag(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

// CharacterCount returns the number of characters in the markup-stripped text.
func CharacterCount(input string) int {
	return utf8.RuneCountInString(Text(input))
}

// WordCount returns the number of words in the markup-stripped text.
//
// A word is a run of letters, digits or underscores. Hyphens and apostrophes
// between word characters join them ("hello-world", "don't"); every other
// run of non-word characters separates words. Text with no word characters,
// including the empty string, counts 0.
func WordCount(input string) int {
	runes := []rune(Text(input))
	count := 0
	inWord := false
	for i, r := range runes {
		switch {
		case isWordRune(r):
			if !inWord {
				count++
				inWord = true
			}
		case inWord && isJoiner(r) && i+1 < len(runes) && isWordRune(runes[i+1]):
			// stays inside the current word
		default:
			inWord = false
		}
	}
	return count
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isJoiner(r rune) bool {
	switch r {
	case '-', '\'', '’', '‐', '‑':
		return true
	}
	return false
}
