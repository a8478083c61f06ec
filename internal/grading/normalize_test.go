package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text is lowered", "Paris", "paris"},
		{"markup is stripped", "<p>Paris</p>", "paris"},
		{"nested markup", "<div><b>The</b> Answer</div>", "the answer"},
		{"whitespace runs collapse", "  The   Answer \n Is\tHere ", "the answer is here"},
		{"entities decode", "a &amp; b", "a & b"},
		{"empty stays empty", "", ""},
		{"only markup becomes empty", "<p></p>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{"<p>Some  Mixed\tCase</p>", "already normal", "1,234"}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once))
	}
}

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare integer unchanged", "1234", "1234"},
		{"grouped thousands lose commas", "1,234", "1234"},
		{"long grouping", "12,345,678", "12345678"},
		{"bad grouping untouched", "12,34", "12,34"},
		{"grouping with space untouched", "1, 234", "1, 234"},
		{"decimal untouched", "3.14", "3.14"},
		{"word untouched and not lowered", "Seven", "Seven"},
		{"trimmed", "  42  ", "42"},
		{"markup stripped first", "<p>1,234</p>", "1234"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNumeric(tt.input))
		})
	}
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "no markup here", StripMarkup("no markup here"))
	assert.Equal(t, "text", StripMarkup("<span>text</span>"))
	// The fast path only fires when neither '<' nor '&' is present.
	assert.Equal(t, "a < b", StripMarkup("a &lt; b"))
}
