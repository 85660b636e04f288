// Package synth manufactures representative instances from JSON Schema and
// OpenAPI schema nodes.
//
// For every node the first applicable source wins:
//   - example (or examples[0]) when UseExamplesValue is set, verbatim
//   - default when UseDefaultValue is set, verbatim
//   - structural generation from type, format and constraints
//
// Examples and defaults are trusted as written. They are never re-validated
// or coerced, so placeholders such as "{{orderId}}" flow through unchanged.
package synth

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/reoring/schemaforge"
	"github.com/reoring/schemaforge/pointer"
)

const (
	// maxRefExpansions bounds how often one $ref may be expanded on a single
	// path, so recursive schemas terminate.
	maxRefExpansions = 2
	// maxDepth bounds nesting independently of references.
	maxDepth = 32
)

// Generator synthesizes values. A Generator owns its random source and must
// not be shared between goroutines.
type Generator struct {
	opts schemaforge.Options
	refs *pointer.Index
	log  *slog.Logger
	rnd  *rand.Rand
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRefs resolves $ref nodes against the given index.
func WithRefs(ix *pointer.Index) Option {
	return func(g *Generator) {
		if ix != nil {
			g.refs = ix
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithRand overrides the random source. It takes precedence over Options.Seed.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rnd = r
		}
	}
}

// New returns a Generator. A nil o reads the process-wide options.
func New(o *schemaforge.Options, opts ...Option) *Generator {
	g := &Generator{
		opts: schemaforge.Resolve(o),
		log:  slog.New(slog.DiscardHandler),
	}
	for _, fn := range opts {
		if fn != nil {
			fn(g)
		}
	}
	if g.rnd == nil {
		seed := g.opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		g.rnd = rand.New(rand.NewSource(seed))
	}
	return g
}

// Synthesize is a one-shot New(o, opts...).Generate(schema).
func Synthesize(schema any, o *schemaforge.Options, opts ...Option) (any, error) {
	return New(o, opts...).Generate(schema)
}

// Generate produces one JSON-compatible value for schema. Integers are int64,
// numbers float64, objects map[string]any and arrays []any. The only errors
// are unresolved references when IgnoreMissingRefs is off.
func (g *Generator) Generate(schema any) (any, error) {
	r := &run{g: g, expanding: map[string]int{}}
	v, _, err := r.node(schema, nil, 0)
	return v, err
}

// run carries the state of one Generate call.
type run struct {
	g         *Generator
	expanding map[string]int
}

// hint is an example borrowed from an enclosing array example.
type hint struct{ value any }

// node synthesizes one schema node. ok is false when nothing can be emitted
// (unresolved reference, recursion cut, false schema); object properties are
// then omitted.
func (r *run) node(schema any, h *hint, depth int) (v any, ok bool, err error) {
	if depth > maxDepth {
		r.g.log.Debug("depth limit reached")
		return nil, false, nil
	}
	m, isMap := schema.(map[string]any)
	if !isMap {
		// true and absent schemas accept anything; emit null.
		b, isBool := schema.(bool)
		return nil, !isBool || b, nil
	}

	if ref, has := m["$ref"].(string); has {
		return r.ref(ref, h, depth)
	}

	o := r.g.opts
	typ := schemaType(m)
	if o.UseExamplesValue {
		// Array examples are handled item by item in array.
		if ex, has := exampleOf(m); has {
			if typ != "array" || !isList(ex) {
				return cloneValue(ex), true, nil
			}
		} else if h != nil {
			return cloneValue(h.value), true, nil
		}
	}
	if o.UseDefaultValue {
		if d, has := m["default"]; has {
			return cloneValue(d), true, nil
		}
	}
	if c, has := m["const"]; has {
		return cloneValue(c), true, nil
	}
	if enum, _ := m["enum"].([]any); len(enum) > 0 {
		return cloneValue(enum[r.g.rnd.Intn(len(enum))]), true, nil
	}

	if all, _ := m["allOf"].([]any); len(all) > 0 {
		merged, err := r.mergeAllOf(m, all)
		if err != nil {
			return nil, false, err
		}
		return r.node(merged, h, depth+1)
	}
	for _, kw := range []string{"oneOf", "anyOf"} {
		if branches, _ := m[kw].([]any); len(branches) > 0 {
			rest := without(m, kw)
			return r.node(mergeSchemas(rest, branches[0]), h, depth+1)
		}
	}

	switch typ {
	case "object":
		v, err := r.object(m, depth)
		return v, err == nil, err
	case "array":
		v, err := r.array(m, depth)
		return v, err == nil, err
	case "string":
		return r.g.str(m), true, nil
	case "integer":
		return r.g.integer(m), true, nil
	case "number":
		return r.g.number(m), true, nil
	case "boolean":
		return r.g.rnd.Intn(2) == 0, true, nil
	}
	return nil, true, nil
}

// ref expands a $ref. Siblings of $ref are ignored.
func (r *run) ref(ref string, h *hint, depth int) (any, bool, error) {
	if r.expanding[ref] >= maxRefExpansions {
		r.g.log.Debug("recursive $ref cut", "ref", ref)
		return nil, false, nil
	}
	target, err := r.g.refs.Lookup(ref)
	if err != nil {
		if r.g.opts.IgnoreMissingRefs {
			r.g.log.Debug("unresolved $ref skipped", "ref", ref)
			return nil, false, nil
		}
		return nil, false, err
	}
	r.expanding[ref]++
	defer func() { r.expanding[ref]-- }()
	return r.node(target, h, depth+1)
}

// mergeAllOf folds every allOf branch, with references expanded, into the
// enclosing node.
func (r *run) mergeAllOf(m map[string]any, all []any) (map[string]any, error) {
	out := without(m, "allOf")
	for _, b := range all {
		b, err := r.deref(b)
		if err != nil {
			return nil, err
		}
		out = mergeSchemas(out, b)
	}
	return out, nil
}

// deref follows a chain of $ref nodes to the first concrete schema. nil means
// the chain could not be followed and was skipped.
func (r *run) deref(s any) (any, error) {
	for range maxDepth {
		m, _ := s.(map[string]any)
		ref, has := m["$ref"].(string)
		if !has {
			return s, nil
		}
		if r.expanding[ref] >= maxRefExpansions {
			return nil, nil
		}
		target, err := r.g.refs.Lookup(ref)
		if err != nil {
			if r.g.opts.IgnoreMissingRefs {
				r.g.log.Debug("unresolved $ref in allOf skipped", "ref", ref)
				return nil, nil
			}
			return nil, err
		}
		s = target
	}
	return nil, nil
}

// mergeSchemas combines two schema maps. properties are unioned, required
// lists concatenated, and any other keyword keeps the value from a.
func mergeSchemas(a map[string]any, b any) map[string]any {
	bm, ok := b.(map[string]any)
	if !ok {
		return a
	}
	out := make(map[string]any, len(a)+len(bm))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range bm {
		switch k {
		case "properties":
			props := map[string]any{}
			if pa, ok := out[k].(map[string]any); ok {
				for n, s := range pa {
					props[n] = s
				}
			}
			if pb, ok := v.(map[string]any); ok {
				for n, s := range pb {
					if _, exists := props[n]; !exists {
						props[n] = s
					}
				}
			}
			out[k] = props
		case "required":
			ra, _ := out[k].([]any)
			rb, _ := v.([]any)
			out[k] = append(append([]any{}, ra...), rb...)
		default:
			if _, exists := out[k]; !exists {
				out[k] = v
			}
		}
	}
	return out
}

func without(m map[string]any, key string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// schemaType returns the first non-null declared type, or infers one from the
// keywords present.
func schemaType(m map[string]any) string {
	switch t := m["type"].(type) {
	case string:
		return t
	case []any:
		for _, x := range t {
			if s, _ := x.(string); s != "" && s != "null" {
				return s
			}
		}
		return "null"
	}
	switch {
	case m["properties"] != nil, m["additionalProperties"] != nil, m["patternProperties"] != nil:
		return "object"
	case m["items"] != nil, m["prefixItems"] != nil:
		return "array"
	case m["format"] != nil, m["pattern"] != nil, m["minLength"] != nil, m["maxLength"] != nil:
		return "string"
	case m["minimum"] != nil, m["maximum"] != nil, m["multipleOf"] != nil:
		return "number"
	}
	return ""
}

// exampleOf returns the node's example keyword, falling back to the first
// entry of examples.
func exampleOf(m map[string]any) (any, bool) {
	if ex, ok := m["example"]; ok {
		return ex, true
	}
	if exs, ok := m["examples"].([]any); ok && len(exs) > 0 {
		return exs[0], true
	}
	return nil, false
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

func isDeprecated(s any) bool {
	m, _ := s.(map[string]any)
	d, _ := m["deprecated"].(bool)
	return d
}

// cloneValue deep-copies JSON containers so callers may mutate results
// without touching the schema.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = cloneValue(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = cloneValue(x)
		}
		return out
	}
	return v
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
