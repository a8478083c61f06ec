// Package grading holds the pure answer-comparison logic shared by the live
// answer endpoint, finalization and result reporting. Nothing in here touches
// the database and nothing in here panics on malformed input; a bad answer is
// simply not correct.
package grading

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	plainNumber   = regexp.MustCompile(`^\d+$`)
	groupedNumber = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// StripMarkup extracts the text content of an HTML fragment. Question and
// option texts come out of a rich-text editor, so "<p>Paris</p>" and "Paris"
// must compare equal.
func StripMarkup(value string) string {
	if !strings.ContainsRune(value, '<') && !strings.ContainsRune(value, '&') {
		return value
	}
	var b strings.Builder
	tok := html.NewTokenizer(strings.NewReader(value))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tok.Text())
		}
	}
	return b.String()
}

// NormalizeText strips markup, collapses whitespace runs, trims and
// lowercases. All choice-type comparisons go through this.
func NormalizeText(value string) string {
	text := spaceRun.ReplaceAllString(StripMarkup(value), " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// NormalizeNumeric strips markup and trims, then removes thousands commas
// only when the value is a bare integer or an integer in strict 3-digit
// international grouping (1,234 or 12,345,678, but not "1, 234" or "12,34").
// Anything else is returned trimmed but otherwise untouched; in particular
// it is NOT lowercased, numbers do not need it.
func NormalizeNumeric(value string) string {
	text := strings.TrimSpace(StripMarkup(value))
	if text == "" {
		return ""
	}
	if plainNumber.MatchString(text) {
		return text
	}
	if groupedNumber.MatchString(text) {
		return strings.ReplaceAll(text, ",", "")
	}
	return text
}
