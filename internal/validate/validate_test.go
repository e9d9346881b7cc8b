package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
	"github.com/smilepat/csat-connectedu-company/internal/spec"
)

func rc22Spec(t *testing.T) *spec.Specification {
	t.Helper()
	r, err := spec.Load()
	if err != nil {
		t.Fatalf("spec.Load: %v", err)
	}
	sp, _ := r.Get(itemtype.RC22)
	return sp
}

const validItem = `{
	"question": "다음 글의 요지로 가장 적절한 것은?",
	"passage": "A passage about tides.",
	"options": ["하나", "둘", "셋", "넷", "다섯"],
	"correct_answer": "2",
	"explanation": "해설"
}`

func TestItem_Valid(t *testing.T) {
	item, err := Item(validItem, rc22Spec(t))
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if item["correct_answer"] != "2" {
		t.Errorf("correct_answer = %v", item["correct_answer"])
	}
}

func TestItem_ParseFailure(t *testing.T) {
	_, err := Item("this is not json at all {{{", rc22Spec(t))
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.Stage != StageParse {
		t.Errorf("stage = %q, want parse", f.Stage)
	}
}

func TestItem_RepairsTrailingComma(t *testing.T) {
	broken := strings.Replace(validItem, `"explanation": "해설"`, `"explanation": "해설",`, 1)
	if _, err := Item(broken, rc22Spec(t)); err != nil {
		t.Errorf("trailing comma should be repaired: %v", err)
	}
}

func TestItem_SchemaFailureNamesField(t *testing.T) {
	fourOptions := strings.Replace(validItem,
		`["하나", "둘", "셋", "넷", "다섯"]`, `["하나", "둘", "셋", "넷"]`, 1)
	_, err := Item(fourOptions, rc22Spec(t))
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.Stage != StageSchema {
		t.Errorf("stage = %q, want schema", f.Stage)
	}
	if !strings.Contains(f.Field, "options") {
		t.Errorf("field = %q, want options location", f.Field)
	}
}

func TestItem_HooksRunBeforeSchema(t *testing.T) {
	aliased := `{
		"stem": "질문?",
		"passage": "A passage.",
		"choices": ["하나", "둘", "셋", "넷", "다섯"],
		"answer": "③",
		"rationale": "해설"
	}`
	item, err := Item(aliased, rc22Spec(t))
	if err != nil {
		t.Fatalf("aliased item should pass after hooks: %v", err)
	}
	if item["correct_answer"] != "3" {
		t.Errorf("correct_answer = %v", item["correct_answer"])
	}
}
