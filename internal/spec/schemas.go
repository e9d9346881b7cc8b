package spec

import "github.com/smilepat/csat-connectedu-company/internal/itemtype"

// mcqSchema is the standard five-option MCQ shape shared by most
// reading types. Extra fields the model volunteers (vocabulary profile,
// chart data) are tolerated; only the listed fields are enforced.
func mcqSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "minLength": 1},
			"passage":  map[string]any{"type": "string", "minLength": 1},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": 5,
				"maxItems": 5,
			},
			"correct_answer": map[string]any{
				"type": "string",
				"enum": []any{"1", "2", "3", "4", "5"},
			},
			"explanation": map[string]any{"type": "string", "minLength": 1},
			"difficulty": map[string]any{
				"type": "string",
				"enum": []any{"easy", "medium", "hard"},
			},
		},
		"required": []any{"question", "passage", "options", "correct_answer", "explanation"},
	}
}

// setQuestionSchema is one question inside a multi-question set.
func setQuestionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_number": map[string]any{"type": "integer"},
			"question":        map[string]any{"type": "string", "minLength": 1},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": 5,
				"maxItems": 5,
			},
			"correct_answer": map[string]any{
				"type": "string",
				"enum": []any{"1", "2", "3", "4", "5"},
			},
			"explanation": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []any{"question_number", "question", "options", "correct_answer", "explanation"},
	}
}

func setSchema(questionCount int) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"set_instruction": map[string]any{"type": "string", "minLength": 1},
			"passage":         map[string]any{"type": "string"},
			"questions": map[string]any{
				"type":     "array",
				"items":    setQuestionSchema(),
				"minItems": questionCount,
				"maxItems": questionCount,
			},
		},
		"required": []any{"set_instruction", "questions"},
	}
}

func rc40Schema() map[string]any {
	s := mcqSchema()
	props := s["properties"].(map[string]any)
	props["summary_template"] = map[string]any{"type": "string", "minLength": 1}
	props["summary_A"] = map[string]any{"type": "string"}
	props["summary_B"] = map[string]any{"type": "string"}
	s["required"] = []any{"question", "passage", "summary_template", "options", "correct_answer", "explanation"}
	return s
}

func rc25Schema() map[string]any {
	s := mcqSchema()
	props := s["properties"].(map[string]any)
	props["chart_description"] = map[string]any{"type": "string"}
	return s
}

func rc4345Schema() map[string]any {
	s := setSchema(3)
	props := s["properties"].(map[string]any)
	delete(props, "passage")
	props["passage_parts"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"A": map[string]any{"type": "string", "minLength": 1},
			"B": map[string]any{"type": "string", "minLength": 1},
			"C": map[string]any{"type": "string", "minLength": 1},
			"D": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []any{"A", "B", "C", "D"},
	}
	s["required"] = []any{"set_instruction", "passage_parts", "questions"}
	return s
}

func rc4142Schema() map[string]any {
	s := setSchema(2)
	props := s["properties"].(map[string]any)
	props["passage"] = map[string]any{"type": "string", "minLength": 1}
	s["required"] = []any{"set_instruction", "passage", "questions"}
	return s
}

// schemaTable maps every item type to its schema definition.
var schemaTable = func() map[itemtype.Code]map[string]any {
	t := make(map[itemtype.Code]map[string]any, len(itemtype.All))
	for _, code := range itemtype.All {
		t[code] = mcqSchema()
	}
	t[itemtype.RC25] = rc25Schema()
	t[itemtype.RC40] = rc40Schema()
	t[itemtype.RC4142] = rc4142Schema()
	t[itemtype.RC4345] = rc4345Schema()
	return t
}()
