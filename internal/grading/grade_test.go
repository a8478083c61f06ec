package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var fourOptions = map[string]string{
	"A": "Mercury",
	"B": "Venus",
	"C": "Earth",
	"D": "Mars",
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{100, "A+"},
		{95, "A+"},
		{94.9, "A-"},
		{90, "A-"},
		{85, "B+"},
		{80, "B-"},
		{75, "C+"},
		{70, "C-"},
		{65, "D+"},
		{60, "D-"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LetterGrade(tt.percentage), "percentage %v", tt.percentage)
	}
}

func TestGradeSingleChoice(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		correct  string
		options  map[string]string
		want     bool
	}{
		{"matching label", "B", "B", fourOptions, true},
		{"case and spacing on label", " b ", "B", fourOptions, true},
		{"wrong label", "A", "B", fourOptions, false},
		{"empty selection", "", "B", fourOptions, false},
		{"unknown label", "E", "B", fourOptions, false},
		{"empty correct label", "B", "", fourOptions, false},
		{"label with empty option text", "A", "A", map[string]string{"A": ""}, false},
		{
			"same text under different markup",
			"A", "B",
			map[string]string{"A": "<p>Venus</p>", "B": "Venus "},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeSingleChoice(tt.selected, tt.correct, tt.options))
		})
	}
}

func TestGradeMultiChoice(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		correct  []string
		want     bool
	}{
		{"order does not matter", []string{"B", "a"}, []string{"A", "B"}, true},
		{"exact match", []string{"A", "B"}, []string{"A", "B"}, true},
		{"missing one", []string{"A"}, []string{"A", "B"}, false},
		{"extra one", []string{"A", "B", "C"}, []string{"A", "B"}, false},
		{"empty selection", nil, []string{"A", "B"}, false},
		{"empty correct", []string{"A"}, nil, false},
		{"unknown labels dropped then mismatch", []string{"A", "E"}, []string{"A", "B"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeMultiChoice(tt.selected, tt.correct, fourOptions))
		})
	}
}

func TestGradeFillInBlank(t *testing.T) {
	tests := []struct {
		name    string
		student map[string]string
		correct map[string]string
		want    bool
	}{
		{
			"exact",
			map[string]string{"blank1": "1234"},
			map[string]string{"blank1": "1234"},
			true,
		},
		{
			"thousands comma is forgiven",
			map[string]string{"blank1": "1,234"},
			map[string]string{"blank1": "1234"},
			true,
		},
		{
			"comma on the key side too",
			map[string]string{"blank1": "1234"},
			map[string]string{"blank1": "1,234"},
			true,
		},
		{
			"bad grouping is not forgiven",
			map[string]string{"blank1": "12,34"},
			map[string]string{"blank1": "1234"},
			false,
		},
		{
			"key case and spacing ignored",
			map[string]string{" Blank1 ": "7"},
			map[string]string{"blank1": "7"},
			true,
		},
		{
			"blank student values ignored, missing answer fails",
			map[string]string{"blank1": "  "},
			map[string]string{"blank1": "7"},
			false,
		},
		{
			"multiple blanks all must match",
			map[string]string{"blank1": "1", "blank2": "2"},
			map[string]string{"blank1": "1", "blank2": "3"},
			false,
		},
		{
			"extra student blank fails",
			map[string]string{"blank1": "1", "blank2": "2"},
			map[string]string{"blank1": "1"},
			false,
		},
		{
			"empty answer key is never correct",
			map[string]string{},
			map[string]string{},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeFillInBlank(tt.student, tt.correct))
		})
	}
}

func TestSelectedOption(t *testing.T) {
	assert.Equal(t, "B", SelectedOption([]byte(`{"selected":"B"}`)))
	assert.Equal(t, "B", SelectedOption([]byte(`"B"`)))
	assert.Equal(t, "", SelectedOption([]byte(`{}`)))
	assert.Equal(t, "", SelectedOption([]byte(`not json`)))
}

func TestSelectedOptions(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, SelectedOptions([]byte(`{"selected":["A","B"]}`)))
	assert.Equal(t, []string{"A", "B"}, SelectedOptions([]byte(`["A","B"]`)))
	assert.Equal(t, []string{"A"}, SelectedOptions([]byte(`"A"`)))
	assert.Empty(t, SelectedOptions([]byte(`{"selected":[]}`)))
}

func TestBlankValues(t *testing.T) {
	got := BlankValues([]byte(`{"blank1":"1,234","blank2":7}`))
	assert.Equal(t, map[string]string{"blank1": "1,234", "blank2": "7"}, got)
	assert.Empty(t, BlankValues([]byte(`not json`)))
}

func TestIsBlankPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"blank string", `""`, true},
		{"whitespace string", `"  "`, true},
		{"empty object", `{}`, true},
		{"object of blanks", `{"selected":""}`, true},
		{"empty list", `{"selected":[]}`, true},
		{"null", `null`, true},
		{"malformed json", `{{`, true},
		{"real selection", `{"selected":"B"}`, false},
		{"real list", `{"selected":["A"]}`, false},
		{"real blanks", `{"blank1":"7"}`, false},
		{"number is not blank", `{"blank1":0}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBlankPayload([]byte(tt.raw)))
		})
	}
}
