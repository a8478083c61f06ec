package grading

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Answer payloads arrive as free-form JSON: {"selected":"B"} for single
// choice, {"selected":["A","B"]} for multi choice, {"blank1":"1,234"} for
// fill-in-blank. Clients have historically also sent bare strings and bare
// arrays, so the decoders below accept those too.

// SelectedOption extracts a single-choice selection from a raw payload.
func SelectedOption(raw []byte) string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err == nil {
		return stringify(m["selected"])
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// SelectedOptions extracts a multi-choice selection from a raw payload.
// A lone string counts as a single-element selection.
func SelectedOptions(raw []byte) []string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err == nil {
		return stringifyList(m["selected"])
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		return stringifyList(list)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}
	return nil
}

// BlankValues extracts a fill-in-blank key→value map from a raw payload.
func BlankValues(raw []byte) map[string]string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = stringify(v)
	}
	return out
}

// IsBlankPayload reports whether a payload carries no answer at all: a blank
// string, an empty list, or an object whose values are all blank. Blank
// payloads are never persisted.
func IsBlankPayload(raw []byte) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	return isBlankValue(v)
}

func isBlankValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		for _, e := range t {
			if !isBlankValue(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range t {
			if !isBlankValue(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func stringifyList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, stringify(e))
		}
		return out
	default:
		return nil
	}
}
