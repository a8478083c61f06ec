package grading

import (
	"sort"
	"strings"
)

// Letter grade thresholds used for every percentage shown to students.
func LetterGrade(percentage float64) string {
	switch {
	case percentage >= 95:
		return "A+"
	case percentage >= 90:
		return "A-"
	case percentage >= 85:
		return "B+"
	case percentage >= 80:
		return "B-"
	case percentage >= 75:
		return "C+"
	case percentage >= 70:
		return "C-"
	case percentage >= 65:
		return "D+"
	case percentage >= 60:
		return "D-"
	default:
		return "F"
	}
}

// resolveLabel maps an option label ("a", " B ") to its option text.
func resolveLabel(label string, options map[string]string) (string, bool) {
	text, ok := options[strings.ToUpper(strings.TrimSpace(label))]
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// GradeSingleChoice resolves both the selected and the correct label through
// the option map and compares the option texts. A missing or empty side is
// never correct.
func GradeSingleChoice(selectedLabel, correctLabel string, options map[string]string) bool {
	selected, ok := resolveLabel(selectedLabel, options)
	if !ok {
		return false
	}
	correct, ok := resolveLabel(correctLabel, options)
	if !ok {
		return false
	}
	return NormalizeText(selected) == NormalizeText(correct)
}

// GradeMultiChoice resolves each label list to normalized option texts,
// sorts both lists and compares them exactly. Order-independent,
// duplicate-sensitive; labels that don't exist in the option map are dropped.
func GradeMultiChoice(selectedLabels, correctLabels []string, options map[string]string) bool {
	selected := resolveAll(selectedLabels, options)
	correct := resolveAll(correctLabels, options)
	if len(selected) == 0 || len(correct) == 0 {
		return false
	}
	if len(selected) != len(correct) {
		return false
	}
	for i := range selected {
		if selected[i] != correct[i] {
			return false
		}
	}
	return true
}

func resolveAll(labels []string, options map[string]string) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if text, ok := resolveLabel(label, options); ok {
			out = append(out, NormalizeText(text))
		}
	}
	sort.Strings(out)
	return out
}

// GradeFillInBlank compares two blank→value maps. Keys are compared
// case-insensitively after trimming, values go through NormalizeNumeric, and
// entries whose value is blank after trimming are ignored on both sides.
// The remaining maps must match exactly, so an extra or missing non-blank
// key fails the comparison.
func GradeFillInBlank(student, correct map[string]string) bool {
	ns := normalizeBlanks(student)
	nc := normalizeBlanks(correct)
	if len(nc) == 0 || len(ns) != len(nc) {
		return false
	}
	for k, v := range nc {
		if ns[k] != v {
			return false
		}
	}
	return true
}

func normalizeBlanks(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] = NormalizeNumeric(v)
	}
	return out
}
