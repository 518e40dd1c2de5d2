// Package textproc turns raw article text into the normalized token stream used
// for both training and inference.
package textproc

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Normalize lowercases raw, strips everything that is not a letter or whitespace,
// drops English stopwords and stems the remaining tokens. It never fails; empty or
// punctuation-only input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	tokens := Tokens(raw)
	return strings.Join(tokens, " ")
}

// Tokens is Normalize without the final join.
func Tokens(raw string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, raw)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if IsStopword(field) {
			continue
		}
		stem := english.Stem(field, false)
		if stem == "" {
			continue
		}
		tokens = append(tokens, stem)
	}
	return tokens
}

// Combine joins the article fields the same way for training and inference.
// An empty subject is omitted rather than contributing a trailing space.
func Combine(title, text, subject string) string {
	if strings.TrimSpace(subject) == "" {
		return title + " " + text
	}
	return title + " " + text + " " + subject
}

// NormalizeArticle is Normalize(Combine(...)).
func NormalizeArticle(title, text, subject string) string {
	return Normalize(Combine(title, text, subject))
}
