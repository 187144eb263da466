package readingtime

import (
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// CountWords returns the number of words in text. It never fails; input that
// is not valid UTF-8 simply yields fewer words.
func CountWords(text string) int {
	if text == "" {
		return 0
	}

	remaining := norm.NFC.String(text)
	state := -1
	count := 0
	var word string
	for len(remaining) > 0 {
		word, remaining, state = uniseg.FirstWordInString(remaining, state)
		if isWord(word) {
			count++
		}
	}
	return count
}

func isWord(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
