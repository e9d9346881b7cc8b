// Package validate turns normalized model text into a checked item map.
// Validation is two-stage: JSON parse, then schema conformance. The
// first failing stage wins; callers get a Failure naming the stage and
// the offending field so retries can carry a targeted corrective hint.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/smilepat/csat-connectedu-company/internal/normalize"
	"github.com/smilepat/csat-connectedu-company/internal/spec"
)

// Stage names which validation stage rejected the output.
type Stage string

const (
	StageParse  Stage = "parse"
	StageSchema Stage = "schema"
)

// Failure describes a single validation rejection.
type Failure struct {
	Stage  Stage
	Field  string // instance location for schema failures, "" for parse
	Detail string
}

func (f *Failure) Error() string {
	if f.Field != "" {
		return fmt.Sprintf("%s validation failed at %s: %s", f.Stage, f.Field, f.Detail)
	}
	return fmt.Sprintf("%s validation failed: %s", f.Stage, f.Detail)
}

// Item parses normalized model text, applies the spec's postprocess
// hooks, and validates the result against the spec's schema. The
// returned map is the hook-adjusted item.
func Item(text string, sp *spec.Specification) (map[string]any, error) {
	item, err := parseObject(text)
	if err != nil {
		return nil, err
	}

	for _, hook := range sp.Hooks {
		item = hook(item)
	}

	if err := sp.Compiled().Validate(any(item)); err != nil {
		return nil, schemaFailure(err)
	}

	return item, nil
}

// parseObject unmarshals text into a JSON object, attempting a
// structural repair before giving up on a syntax error.
func parseObject(text string) (map[string]any, error) {
	var item map[string]any
	if err := json.Unmarshal([]byte(text), &item); err == nil {
		return item, nil
	}

	repaired := normalize.RepairJSON(text)
	if err := json.Unmarshal([]byte(repaired), &item); err != nil {
		return nil, &Failure{Stage: StageParse, Detail: err.Error()}
	}
	return item, nil
}

func schemaFailure(err error) error {
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		field := "/" + strings.Join(leaf.InstanceLocation, "/")
		return &Failure{
			Stage:  StageSchema,
			Field:  field,
			Detail: leaf.Error(),
		}
	}
	return &Failure{Stage: StageSchema, Detail: err.Error()}
}
