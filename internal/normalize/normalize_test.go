package normalize

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalize_StripsCodeFence(t *testing.T) {
	raw := "```json\n{\"question\": \"q\"}\n```"
	got := Normalize(raw)
	if got != `{"question": "q"}` {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestNormalize_StripsDanglingFence(t *testing.T) {
	raw := "```json\n{\"a\": 1}"
	got := Normalize(raw)
	if got != `{"a": 1}` {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestNormalize_SmartQuotes(t *testing.T) {
	raw := "{“question”: “What’s the point?”}"
	got := Normalize(raw)
	if got != `{"question": "What's the point?"}` {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestNormalize_StripsControlChars(t *testing.T) {
	raw := "{\"a\": \"x\x00y\"}\n"
	got := Normalize(raw)
	if strings.ContainsRune(got, 0) {
		t.Errorf("control char survived: %q", got)
	}
	if !strings.Contains(got, "xy") {
		t.Errorf("content mangled: %q", got)
	}
}

func TestNormalize_CircledNumeralOutsideString(t *testing.T) {
	raw := `{"correct_answer": ③}`
	got := Normalize(raw)
	want := `{"correct_answer": "3"}`
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(got), &m); err != nil {
		t.Errorf("result does not parse: %v", err)
	}
}

func TestNormalize_CircledNumeralInsideString(t *testing.T) {
	raw := `{"correct_answer": "④"}`
	got := Normalize(raw)
	want := `{"correct_answer": "4"}`
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalize_EscapedQuoteDoesNotFlipStringState(t *testing.T) {
	raw := `{"q": "say \"hi\" then pick", "correct_answer": ①}`
	got := Normalize(raw)
	if !strings.Contains(got, `"correct_answer": "1"`) {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\": “b”}\n```",
		`{"correct_answer": ⑤}`,
		`{"correct_answer": "②"}`,
		"plain text, not json",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestRepairJSON_FixesTrailingComma(t *testing.T) {
	got := RepairJSON(`{"a": 1,}`)
	var m map[string]any
	if err := json.Unmarshal([]byte(got), &m); err != nil {
		t.Fatalf("repaired JSON does not parse: %v (%q)", err, got)
	}
	if m["a"] != float64(1) {
		t.Errorf("a = %v", m["a"])
	}
}

func TestRepairJSON_ValidInputParsesUnchangedSemantics(t *testing.T) {
	in := `{"a": 1}`
	got := RepairJSON(in)
	var m map[string]any
	if err := json.Unmarshal([]byte(got), &m); err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
}
