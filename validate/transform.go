package validate

import (
	"log/slog"
	"strings"

	"github.com/reoring/schemaforge"
	"github.com/reoring/schemaforge/draft"
	"github.com/reoring/schemaforge/loader"
	"github.com/reoring/schemaforge/pointer"
)

// Keywords whose value is a map of name -> subschema.
var schemaMapKeywords = []string{"properties", "patternProperties", "definitions", "$defs", "dependentSchemas"}

// Keywords whose value is a single subschema.
var schemaKeywords = []string{
	"additionalProperties", "additionalItems", "not", "if", "then", "else",
	"contains", "propertyNames", "unevaluatedProperties", "unevaluatedItems",
}

// Keywords whose value is a list of subschemas.
var schemaListKeywords = []string{"allOf", "anyOf", "oneOf", "prefixItems"}

const componentsPrefix = "#/components/"

// componentsURL names the in-memory resource holding the indexed components.
// Component references are rewritten to point into it, so the engine follows
// recursive references itself.
const componentsURL = "https://schemaforge.invalid/components.json"

// transformer rewrites a canonical schema copy before compilation.
type transformer struct {
	includeDeprecated bool
	ignoreMissingRefs bool
	refs              *pointer.Index
	log               *slog.Logger
	// components is a canonical copy of the indexed components, nil until a
	// reference needs it.
	components map[string]any
	linked     map[string]bool
}

// root normalizes the root $schema declaration and rewrites every subschema.
func (t *transformer) root(doc any) (any, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return doc, nil
	}
	if s, ok := m["$schema"].(string); ok {
		if draft.Known(s) {
			m["$schema"] = draft.Parse(s).URI()
		} else {
			t.log.Debug("dropping unknown $schema", "uri", s)
			delete(m, "$schema")
		}
	}
	return t.schema(doc)
}

func (t *transformer) schema(node any) (any, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return node, nil
	}
	if ref, ok := m["$ref"].(string); ok && strings.HasPrefix(ref, componentsPrefix) && t.refs != nil {
		return t.link(m, ref)
	}

	applyNullable(m)

	for _, kw := range schemaMapKeywords {
		sub, ok := m[kw].(map[string]any)
		if !ok {
			continue
		}
		for name, s := range sub {
			if kw == "properties" && !t.includeDeprecated && isDeprecated(s) {
				// Value no longer checked; requiredness still is.
				sub[name] = map[string]any{}
				continue
			}
			v, err := t.schema(s)
			if err != nil {
				return nil, err
			}
			sub[name] = v
		}
	}
	for _, kw := range schemaKeywords {
		if s, ok := m[kw]; ok {
			v, err := t.schema(s)
			if err != nil {
				return nil, err
			}
			m[kw] = v
		}
	}
	// items is a schema or, before 2020-12, a list of schemas.
	if s, ok := m["items"]; ok {
		if err := t.schemaOrList(m, "items", s); err != nil {
			return nil, err
		}
	}
	for _, kw := range schemaListKeywords {
		if s, ok := m[kw]; ok {
			if err := t.schemaOrList(m, kw, s); err != nil {
				return nil, err
			}
		}
	}
	if deps, ok := m["dependencies"].(map[string]any); ok {
		for name, d := range deps {
			if _, isList := d.([]any); isList {
				continue
			}
			v, err := t.schema(d)
			if err != nil {
				return nil, err
			}
			deps[name] = v
		}
	}
	return m, nil
}

func (t *transformer) schemaOrList(m map[string]any, kw string, s any) error {
	list, ok := s.([]any)
	if !ok {
		v, err := t.schema(s)
		if err != nil {
			return err
		}
		m[kw] = v
		return nil
	}
	for i := range list {
		v, err := t.schema(list[i])
		if err != nil {
			return err
		}
		list[i] = v
	}
	return nil
}

// link points a component reference into the components resource and
// rewrites its target once. A missing target turns m into the unconstrained
// schema when missing references are ignored.
func (t *transformer) link(m map[string]any, ref string) (any, error) {
	if _, err := t.refs.Lookup(ref); err != nil {
		if t.ignoreMissingRefs {
			t.log.Debug("unresolved $ref treated as unconstrained", "ref", ref)
			clear(m)
			return m, nil
		}
		return nil, err
	}
	m["$ref"] = componentsURL + ref
	if t.linked[ref] {
		return m, nil
	}
	if t.linked == nil {
		t.linked = map[string]bool{}
	}
	t.linked[ref] = true
	if t.components == nil {
		doc := t.refs.Document()
		cp, err := loader.Canonical(map[string]any{pointer.ComponentsKey: doc[pointer.ComponentsKey]})
		if err != nil {
			return nil, &schemaforge.SchemaCompilationError{Err: err}
		}
		t.components = cp.(map[string]any)
	}
	target, err := pointer.Resolve(t.components, ref)
	if err != nil {
		return nil, err
	}
	// Targets are rewritten in place inside t.components.
	if _, err := t.schema(target); err != nil {
		return nil, err
	}
	return m, nil
}

// applyNullable turns the OpenAPI "nullable: true" marker into a "null"
// member of type. enum is left alone, so an enum without null still rejects it.
func applyNullable(m map[string]any) {
	if n, _ := m["nullable"].(bool); !n {
		return
	}
	switch t := m["type"].(type) {
	case string:
		if t != "null" {
			m["type"] = []any{t, "null"}
		}
	case []any:
		for _, x := range t {
			if x == "null" {
				return
			}
		}
		m["type"] = append(t, "null")
	}
}

// isDeprecated reports whether a property schema carries the deprecated
// keyword set to true.
func isDeprecated(s any) bool {
	m, ok := s.(map[string]any)
	if !ok {
		return false
	}
	d, _ := m["deprecated"].(bool)
	return d
}
