package spec

import (
	"strings"
	"testing"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
)

func mustLoad(t *testing.T) *Registry {
	t.Helper()
	r, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return r
}

func TestLoad_AllTypesRegistered(t *testing.T) {
	r := mustLoad(t)
	for _, code := range itemtype.All {
		sp, ok := r.Get(code)
		if !ok {
			t.Errorf("missing spec for %s", code)
			continue
		}
		if sp.Compiled() == nil {
			t.Errorf("%s: schema not compiled", code)
		}
		if sp.System == "" || sp.Title == "" {
			t.Errorf("%s: incomplete spec", code)
		}
	}
}

func TestResolve_Aliases(t *testing.T) {
	r := mustLoad(t)

	tests := []struct {
		raw  string
		want itemtype.Code
	}{
		{"RC22", itemtype.RC22},
		{"rc22", itemtype.RC22},
		{" rc31 ", itemtype.RC31},
		{"RC41", itemtype.RC4142},
		{"RC42", itemtype.RC4142},
		{"RC44", itemtype.RC4345},
		{"RC41-42", itemtype.RC4142},
		{"RC43_45", itemtype.RC4345},
		{"RC99", itemtype.RCGeneric},
		{"nonsense", itemtype.RCGeneric},
	}
	for _, tt := range tests {
		sp, ok := r.Resolve(tt.raw)
		if !ok {
			t.Errorf("Resolve(%q) not found", tt.raw)
			continue
		}
		if sp.Code != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.raw, sp.Code, tt.want)
		}
	}

	if _, ok := r.Resolve(""); ok {
		t.Error("Resolve(\"\") should not resolve")
	}
}

func TestAssemble_DefaultsAndPassageGuard(t *testing.T) {
	r := mustLoad(t)
	sp, _ := r.Get(itemtype.RC22)

	system, user, err := Assemble(sp, GenContext{Passage: "The tide rises."})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(system, "CSAT English RC22") {
		t.Errorf("system prompt missing type header: %q", system)
	}
	if !strings.Contains(user, "Difficulty: medium") {
		t.Errorf("difficulty default not applied:\n%s", user)
	}
	if !strings.Contains(user, "Topic: random") {
		t.Errorf("topic default not applied:\n%s", user)
	}
	if !strings.Contains(user, "The tide rises.") {
		t.Errorf("passage not embedded:\n%s", user)
	}
	if !strings.Contains(user, "do NOT invent") {
		t.Errorf("passage-use guard missing:\n%s", user)
	}
}

func TestAssemble_NoPassageAsksForOne(t *testing.T) {
	r := mustLoad(t)
	sp, _ := r.Get(itemtype.RC18)

	_, user, err := Assemble(sp, GenContext{Difficulty: "hard", Topic: "school life"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(user, "No passage provided") {
		t.Errorf("missing new-passage instruction:\n%s", user)
	}
	if !strings.Contains(user, "Difficulty: hard") || !strings.Contains(user, "Topic: school life") {
		t.Errorf("context not rendered:\n%s", user)
	}
}

func TestSchema_AcceptsValidMCQ(t *testing.T) {
	r := mustLoad(t)
	sp, _ := r.Get(itemtype.RC22)

	item := map[string]any{
		"question":       "다음 글의 요지로 가장 적절한 것은?",
		"passage":        "A passage.",
		"options":        []any{"o1", "o2", "o3", "o4", "o5"},
		"correct_answer": "3",
		"explanation":    "해설",
	}
	if err := sp.Compiled().Validate(item); err != nil {
		t.Errorf("valid MCQ rejected: %v", err)
	}

	item["correct_answer"] = "6"
	if err := sp.Compiled().Validate(item); err == nil {
		t.Error("out-of-range answer accepted")
	}
}

func TestHooks_StandardizeAnswer(t *testing.T) {
	tests := []struct {
		in   any
		opts any
		want any
	}{
		{"④", nil, "4"},
		{"A", nil, "1"},
		{float64(2), nil, "2"},
		{"정답: ③", nil, "3"},
		{"answer: 5", nil, "5"},
		{"two", []any{"one", "two", "three", "four", "five"}, "2"},
		{"garbage", nil, "garbage"},
	}
	for _, tt := range tests {
		item := map[string]any{"correct_answer": tt.in, "options": tt.opts}
		StandardizeAnswer(item)
		if item["correct_answer"] != tt.want {
			t.Errorf("StandardizeAnswer(%v) = %v, want %v", tt.in, item["correct_answer"], tt.want)
		}
	}
}

func TestHooks_TidyOptions(t *testing.T) {
	item := map[string]any{"options": map[string]any{
		"①": "첫째", "②": "둘째", "③": "셋째", "④": "넷째", "⑤": "다섯째",
	}}
	TidyOptions(item)
	opts, ok := item["options"].([]any)
	if !ok || len(opts) != 5 {
		t.Fatalf("options = %v", item["options"])
	}
	if opts[0] != "첫째" || opts[4] != "다섯째" {
		t.Errorf("circled key order lost: %v", opts)
	}

	item = map[string]any{"options": "A) one\nB) two\nC) three\nD) four\nE) five"}
	TidyOptions(item)
	opts = item["options"].([]any)
	if len(opts) != 5 || opts[1] != "two" {
		t.Errorf("string options = %v", opts)
	}

	item = map[string]any{"options": []any{
		map[string]any{"label": "A", "text": "one"},
		map[string]any{"label": "B", "text": "two"},
	}}
	TidyOptions(item)
	opts = item["options"].([]any)
	if len(opts) != 2 || opts[0] != "one" {
		t.Errorf("labeled options = %v", opts)
	}
}

func TestHooks_CoerceMCQAliases(t *testing.T) {
	item := map[string]any{
		"stem":      "질문?",
		"choices":   []any{"a", "b", "c", "d", "e"},
		"answer":    "2",
		"rationale": "왜냐하면",
	}
	CoerceMCQAliases(item)
	if item["question"] != "질문?" {
		t.Errorf("question alias not applied: %v", item["question"])
	}
	if _, ok := item["options"].([]any); !ok {
		t.Errorf("options alias not applied: %v", item["options"])
	}
	if item["correct_answer"] != "2" {
		t.Errorf("correct_answer alias not applied: %v", item["correct_answer"])
	}
	if item["explanation"] != "왜냐하면" {
		t.Errorf("explanation alias not applied: %v", item["explanation"])
	}
}

func TestHooks_StandardizeSetQuestions(t *testing.T) {
	item := map[string]any{
		"set_instruction": "[41~42]",
		"questions": []any{
			map[string]any{"question_number": "41", "question": "q", "options": []any{"1", "2", "3", "4", "5"}, "answer": "②", "explanation": "e"},
		},
	}
	StandardizeSetQuestions(item)
	q := item["questions"].([]any)[0].(map[string]any)
	if q["correct_answer"] != "2" {
		t.Errorf("set answer = %v", q["correct_answer"])
	}
	if q["question_number"] != 41 {
		t.Errorf("question_number = %v", q["question_number"])
	}
}

func TestSanitizePassage(t *testing.T) {
	in := "The  quick\t brown ① fox <u>jumps</u>\r\nover."
	got := SanitizePassage(in, SanitizeOptions{StripCircled: true, StripUnderlines: true})
	if strings.Contains(got, "①") || strings.Contains(got, "<u>") {
		t.Errorf("markup survived: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
	if !strings.Contains(got, "jumps") {
		t.Errorf("underlined text lost: %q", got)
	}
}

func TestCorrectiveHint(t *testing.T) {
	hint := CorrectiveHint("options: minItems 5 required")
	if !strings.Contains(hint, "options: minItems 5 required") {
		t.Errorf("hint missing failure detail: %q", hint)
	}
}
