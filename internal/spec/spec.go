// Package spec holds the per-item-type generation specifications: the
// system prompt, the user prompt template, the JSON schema an item must
// satisfy, and the postprocess hooks that coax near-miss model output
// into schema shape.
package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
)

// Bundle versioning for the built-in spec set. Load refuses to start on
// an incompatible bundle so a bad data edit fails at boot, not mid-request.
const (
	bundleVersion    = "v1.4.0"
	minBundleVersion = "v1.0.0"
)

// ErrRegistryLoad wraps any failure while building the registry.
var ErrRegistryLoad = errors.New("spec registry load failed")

// Hook adjusts a parsed item in place before schema validation.
// Hooks are best-effort and never fail.
type Hook func(item map[string]any) map[string]any

// GenContext carries the caller's generation inputs into prompt assembly.
type GenContext struct {
	Difficulty string // "easy", "medium", "hard"; defaults to "medium"
	Topic      string // topic hint; defaults to "random"
	Passage    string // optional source passage
	Interest   string // optional learner interest hint
}

// Specification is one item type's complete generation contract.
type Specification struct {
	Code  itemtype.Code
	Title string

	// System is the system prompt sent with every generation request.
	System string

	// Schema is the JSON schema the generated item must satisfy.
	Schema map[string]any

	// Hooks run between JSON parse and schema validation.
	Hooks []Hook

	// MinWords and MaxWords bound the generated passage length in words.
	MinWords int
	MaxWords int

	tmpl     *template.Template
	compiled *jsonschema.Schema
}

// Compiled returns the compiled schema. Always non-nil after Load.
func (s *Specification) Compiled() *jsonschema.Schema {
	return s.compiled
}

// Registry holds every loaded Specification keyed by item-type code.
type Registry struct {
	specs map[itemtype.Code]*Specification
	order []itemtype.Code
}

// Load builds the registry from the built-in spec table: every template
// parses, every schema compiles, and the bundle version is checked. Any
// failure aborts the whole load.
func Load() (*Registry, error) {
	if !semver.IsValid(bundleVersion) {
		return nil, fmt.Errorf("%w: invalid bundle version %q", ErrRegistryLoad, bundleVersion)
	}
	if semver.Compare(bundleVersion, minBundleVersion) < 0 {
		return nil, fmt.Errorf("%w: bundle %s is older than minimum %s",
			ErrRegistryLoad, bundleVersion, minBundleVersion)
	}

	r := &Registry{specs: make(map[itemtype.Code]*Specification, len(itemtype.All))}

	for _, code := range itemtype.All {
		def, ok := promptTable[code]
		if !ok {
			return nil, fmt.Errorf("%w: no prompt defined for %s", ErrRegistryLoad, code)
		}
		schema, ok := schemaTable[code]
		if !ok {
			return nil, fmt.Errorf("%w: no schema defined for %s", ErrRegistryLoad, code)
		}

		sp := &Specification{
			Code:     code,
			Title:    def.title,
			System:   def.system,
			Schema:   schema,
			Hooks:    hooksFor(code),
			MinWords: def.minWords,
			MaxWords: def.maxWords,
		}

		tmpl, err := template.New(string(code)).Parse(userPromptHeader + def.body)
		if err != nil {
			return nil, fmt.Errorf("%w: parse template for %s: %v", ErrRegistryLoad, code, err)
		}
		sp.tmpl = tmpl

		compiled, err := compileSchema(string(code), schema)
		if err != nil {
			return nil, fmt.Errorf("%w: compile schema for %s: %v", ErrRegistryLoad, code, err)
		}
		sp.compiled = compiled

		r.specs[code] = sp
		r.order = append(r.order, code)
	}

	return r, nil
}

// Get returns the specification for an exact item-type code.
func (r *Registry) Get(code itemtype.Code) (*Specification, bool) {
	sp, ok := r.specs[code]
	return sp, ok
}

var setRangeRE = regexp.MustCompile(`^RC\d{2}[_-]\d{2}$`)

// Resolve maps a raw caller-supplied code to a specification. Individual
// set members (RC41, RC44) resolve to their set spec, RC##_## ranges to
// the matching set, and anything unknown falls back to the generic MCQ.
func (r *Registry) Resolve(raw string) (*Specification, bool) {
	code := itemtype.Code(strings.ToUpper(strings.TrimSpace(raw)))
	if code == "" {
		return nil, false
	}
	if sp, ok := r.specs[code]; ok {
		return sp, true
	}

	switch code {
	case "RC41", "RC42":
		return r.Get(itemtype.RC4142)
	case "RC43", "RC44", "RC45":
		return r.Get(itemtype.RC4345)
	}

	if setRangeRE.MatchString(string(code)) {
		norm := itemtype.Code(strings.ReplaceAll(string(code), "-", "_"))
		if sp, ok := r.specs[norm]; ok {
			return sp, true
		}
	}

	return r.Get(itemtype.RCGeneric)
}

// Types returns all registered codes in load order.
func (r *Registry) Types() []itemtype.Code {
	out := make([]itemtype.Code, len(r.order))
	copy(out, r.order)
	return out
}

// BundleVersion returns the loaded spec bundle version.
func (r *Registry) BundleVersion() string {
	return bundleVersion
}

// compileSchema compiles a schema definition the way the jsonschema
// library expects: a parsed JSON value, not raw bytes.
func compileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
}
