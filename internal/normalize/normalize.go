// Package normalize cleans raw article text before tokenization.
//
// Cleaning runs in a fixed order because the steps depend on each other:
//  1. hyphens joining two word characters become spaces ("well-known" -> "well known")
//  2. characters that are neither word characters nor whitespace are dropped
//  3. standalone numbers are dropped
//  4. whitespace runs collapse to single spaces and the result is trimmed
//
// Hyphen splitting has to come first since punctuation stripping would otherwise
// glue the two halves into one word.
//
// Usage Example:
//
//	clean := normalize.Text("A well-known 2005 hit!")
//	// clean == "A well known hit"
package normalize

import (
	"strings"
	"unicode"
)

// Text returns the cleaned form of text. It is idempotent.
func Text(text string) string {
	if text == "" {
		return ""
	}

	text = splitHyphens(text)
	text = stripPunctuation(text)

	return dropNumbers(text)
}

// isWordRune matches the Unicode notion of a word character: letters, numbers and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// splitHyphens replaces every hyphen that has a word character on both sides with a space.
// Chains such as "state-of-the-art" are split at every hyphen.
func splitHyphens(text string) string {
	if !strings.ContainsRune(text, '-') {
		return text
	}

	runes := []rune(text)
	for i := 1; i < len(runes)-1; i++ {
		if runes[i] == '-' && isWordRune(runes[i-1]) && isWordRune(runes[i+1]) {
			runes[i] = ' '
		}
	}
	return string(runes)
}

// stripPunctuation removes every rune that is not a word character or whitespace.
func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
}

// dropNumbers removes all-digit words and collapses whitespace.
// Once punctuation is gone, a digit run bounded by word boundaries is exactly a
// whitespace-separated field made only of digits.
func dropNumbers(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, field := range fields {
		if isDigits(field) {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
