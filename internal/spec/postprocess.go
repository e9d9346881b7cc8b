package spec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
)

// answerMap collapses the answer notations models actually emit onto
// the canonical "1"-"5" strings.
var answerMap = map[string]string{
	"①": "1", "②": "2", "③": "3", "④": "4", "⑤": "5",
	"⑴": "1", "⑵": "2", "⑶": "3", "⑷": "4", "⑸": "5",
	"A": "1", "B": "2", "C": "3", "D": "4", "E": "5",
	"a": "1", "b": "2", "c": "3", "d": "4", "e": "5",
	"1": "1", "2": "2", "3": "3", "4": "4", "5": "5",
}

var answerPrefixRE = regexp.MustCompile(`(?i)^(정답|answer)\s*[:：]\s*`)
var optionLabelRE = regexp.MustCompile(`^(?:[ABCDE①②③④⑤1-5][\)\].:\-]\s*)`)

func hooksFor(code itemtype.Code) []Hook {
	switch code {
	case itemtype.RC4142, itemtype.RC4345:
		return []Hook{StandardizeSetQuestions, StripBoldMarkers}
	default:
		return []Hook{CoerceMCQAliases, TidyOptions, StandardizeAnswer, StripBoldMarkers}
	}
}

// CoerceMCQAliases maps the field-name variants models produce onto the
// canonical MCQ fields. English and Korean aliases are both common.
func CoerceMCQAliases(item map[string]any) map[string]any {
	coerceAlias(item, "question", "prompt", "stem", "질문", "문항", "문제")
	coerceAlias(item, "options", "choices", "선지", "보기", "answers", "answer_choices")
	coerceAlias(item, "correct_answer", "answer", "answer_key", "정답", "correct", "label", "solution", "key")
	coerceAlias(item, "explanation", "rationale", "해설", "reasoning", "analysis")
	return item
}

func coerceAlias(item map[string]any, canonical string, aliases ...string) {
	if v, ok := item[canonical]; ok && !isEmptyValue(v) {
		return
	}
	for _, a := range aliases {
		if v, ok := item[a]; ok && !isEmptyValue(v) {
			item[canonical] = v
			return
		}
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	}
	return false
}

// TidyOptions normalizes the many option shapes models emit (string
// lists, label/text objects, keyed maps, one newline-joined blob) into
// a flat list of trimmed strings.
func TidyOptions(item map[string]any) map[string]any {
	raw, ok := item["options"]
	if !ok {
		return item
	}

	switch opts := raw.(type) {
	case []any:
		out := make([]any, 0, len(opts))
		for _, o := range opts {
			var s string
			switch t := o.(type) {
			case map[string]any:
				for _, k := range []string{"text", "option", "value"} {
					if v, ok := t[k].(string); ok && v != "" {
						s = v
						break
					}
				}
			default:
				s = fmt.Sprintf("%v", o)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		item["options"] = out

	case map[string]any:
		item["options"] = orderedMapOptions(opts)

	case string:
		var out []any
		for _, ln := range strings.FieldsFunc(opts, func(r rune) bool { return r == '\n' || r == '\r' }) {
			ln = strings.TrimSpace(optionLabelRE.ReplaceAllString(strings.TrimSpace(ln), ""))
			if ln != "" {
				out = append(out, ln)
			}
		}
		item["options"] = out
	}

	return item
}

var optionKeyOrders = [][]string{
	{"1", "2", "3", "4", "5"},
	{"A", "B", "C", "D", "E"},
	{"a", "b", "c", "d", "e"},
	{"①", "②", "③", "④", "⑤"},
}

func orderedMapOptions(opts map[string]any) []any {
	for _, order := range optionKeyOrders {
		all := true
		for _, k := range order {
			if _, ok := opts[k]; !ok {
				all = false
				break
			}
		}
		if all {
			out := make([]any, 0, len(order))
			for _, k := range order {
				if s := strings.TrimSpace(fmt.Sprintf("%v", opts[k])); s != "" {
					out = append(out, s)
				}
			}
			return out
		}
	}

	// Unrecognized keys: fall back to key-sorted values.
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		if s := strings.TrimSpace(fmt.Sprintf("%v", opts[k])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StandardizeAnswer collapses correct_answer onto a "1"-"5" string:
// numbers, letters, circled numerals, "정답: ④" noise, or an exact
// option-text match all converge. Anything unrecognized is left for the
// schema validator to reject.
func StandardizeAnswer(item map[string]any) map[string]any {
	item["correct_answer"] = standardizeAnswerValue(item["correct_answer"], item["options"])
	return item
}

func standardizeAnswerValue(v, options any) any {
	switch t := v.(type) {
	case float64:
		n := int(t)
		if n >= 1 && n <= 5 && float64(n) == t {
			return fmt.Sprintf("%d", n)
		}
		return v
	case int:
		if t >= 1 && t <= 5 {
			return fmt.Sprintf("%d", t)
		}
		return v
	case string:
		s := strings.TrimSpace(answerPrefixRE.ReplaceAllString(strings.TrimSpace(t), ""))
		if mapped, ok := answerMap[s]; ok {
			return mapped
		}
		if opts, ok := options.([]any); ok {
			for i, o := range opts {
				if os, ok := o.(string); ok && os == s {
					return fmt.Sprintf("%d", i+1)
				}
			}
		}
		return s
	default:
		return v
	}
}

// StandardizeSetQuestions applies the MCQ hooks to each question inside
// a multi-question set item.
func StandardizeSetQuestions(item map[string]any) map[string]any {
	qs, ok := item["questions"].([]any)
	if !ok {
		return item
	}
	for _, q := range qs {
		qm, ok := q.(map[string]any)
		if !ok {
			continue
		}
		CoerceMCQAliases(qm)
		TidyOptions(qm)
		StandardizeAnswer(qm)
		if n, ok := qm["question_number"].(string); ok {
			var parsed int
			if _, err := fmt.Sscanf(strings.TrimSpace(n), "%d", &parsed); err == nil {
				qm["question_number"] = parsed
			}
		}
	}
	return item
}

// StripBoldMarkers removes markdown bold markers from every top-level
// string field and string list.
func StripBoldMarkers(item map[string]any) map[string]any {
	for k, v := range item {
		switch t := v.(type) {
		case string:
			item[k] = strings.ReplaceAll(t, "**", "")
		case []any:
			for i, e := range t {
				if s, ok := e.(string); ok {
					t[i] = strings.ReplaceAll(s, "**", "")
				}
			}
		}
	}
	return item
}
