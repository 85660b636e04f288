// Package validate checks instances against JSON Schema documents written in
// drafts 04 through 2020-12 and reports a normalized, ordered error list.
//
// Two engine variants exist: Legacy serves draft-04 and reports instance
// paths in member-access form (".id", "[0]"); Standard serves every other
// dialect and reports RFC 6901 pointers ("/id", "/0"). Callers key off the
// active draft, so the two conventions are kept apart on purpose.
package validate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/reoring/schemaforge"
	"github.com/reoring/schemaforge/draft"
	"github.com/reoring/schemaforge/loader"
	"github.com/reoring/schemaforge/pointer"
)

// resourceURL names the in-memory schema resource. It is never fetched.
const resourceURL = "https://schemaforge.invalid/schema.json"

// Validator is one validation engine variant.
type Validator interface {
	// Name identifies the engine ("draft04" or "standard").
	Name() string
	// Validate checks instance against schema. dialect is the draft in
	// effect and only matters when the schema declares no $schema. The
	// returned error is non-nil only for schemas that cannot be compiled or
	// references that cannot be resolved; rule violations are data.
	Validate(schema, instance any, dialect string, o schemaforge.Options, opts ...Option) (schemaforge.ValidationErrors, error)
}

// Option customizes a single validation run.
type Option func(*config)

type config struct {
	refs   *pointer.Index
	logger *slog.Logger
}

// WithRefs resolves "#/components/..." references against the given index.
// Recursive references are followed by the engine, never cut.
func WithRefs(ix *pointer.Index) Option {
	return func(c *config) {
		if ix != nil {
			c.refs = ix
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range opts {
		if fn != nil {
			fn(c)
		}
	}
	return c
}

type pathStyle int

const (
	pathPointer pathStyle = iota // "/pet/id"
	pathDotted                   // ".pet.id"
)

type engine struct {
	name   string
	legacy bool
	style  pathStyle
}

var (
	// Legacy serves draft-04 schemas.
	Legacy Validator = &engine{name: "draft04", legacy: true, style: pathDotted}
	// Standard serves drafts 06, 07, 2019-09, 2020-12 and unspecified schemas.
	Standard Validator = &engine{name: "standard", style: pathPointer}
)

var engines = map[draft.Engine]Validator{
	draft.EngineLegacy:   Legacy,
	draft.EngineStandard: Standard,
}

// ValidatorFor maps a dialect to its engine. Unknown and empty dialects map
// to Standard.
func ValidatorFor(dialect string) Validator { return engines[draft.EngineFor(dialect)] }

// Schema validates instance against schema using the draft the schema
// declares, else o.JSONSchemaDialect. A nil o reads the process-wide options.
//
// Errors come out depth first. Within one object the engine visits sibling
// properties in map order, so the relative order of errors raised on
// different properties is not stable between runs.
func Schema(schema, instance any, o *schemaforge.Options, opts ...Option) (schemaforge.ValidationErrors, error) {
	opt := schemaforge.Resolve(o)
	dialect := draft.ToUse(draft.Local(schema), opt.JSONSchemaDialect)
	return ValidatorFor(dialect).Validate(schema, instance, dialect, opt, opts...)
}

func (e *engine) Name() string { return e.name }

func (e *engine) Validate(schema, instance any, dialect string, o schemaforge.Options, opts ...Option) (schemaforge.ValidationErrors, error) {
	if schema == nil {
		// No schema, no constraints.
		return nil, nil
	}
	cfg := newConfig(opts)
	log := cfg.logger.With("engine", e.name)

	doc, err := loader.Canonical(schema)
	if err != nil {
		return nil, &schemaforge.SchemaCompilationError{Draft: dialect, Err: err}
	}
	tr := &transformer{
		includeDeprecated: o.IncludeDeprecated,
		ignoreMissingRefs: o.IgnoreMissingRefs,
		refs:              cfg.refs,
		log:               log,
	}
	if doc, err = tr.root(doc); err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(e.defaultDraft(dialect))
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, &schemaforge.SchemaCompilationError{Draft: dialect, Err: err}
	}
	if tr.components != nil {
		if err := c.AddResource(componentsURL, tr.components); err != nil {
			return nil, &schemaforge.SchemaCompilationError{Draft: dialect, Err: err}
		}
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, &schemaforge.SchemaCompilationError{Draft: dialect, Err: err}
	}

	inst, err := loader.Canonical(instance)
	if err != nil {
		return nil, fmt.Errorf("validate: instance is not JSON-compatible: %w", err)
	}
	verr := sch.Validate(inst)
	if verr == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(verr, &ve) {
		return nil, fmt.Errorf("validate: %w", verr)
	}
	out := e.normalize(ve, inst, log)
	log.Debug("validated", "dialect", dialect, "errors", len(out))
	return out, nil
}

// defaultDraft picks the draft used when the schema declares no $schema.
func (e *engine) defaultDraft(dialect string) *jsonschema.Draft {
	if e.legacy {
		return jsonschema.Draft4
	}
	switch draft.Parse(dialect) {
	case draft.Draft06:
		return jsonschema.Draft6
	case draft.Draft07:
		return jsonschema.Draft7
	case draft.Draft2019:
		return jsonschema.Draft2019
	default:
		return jsonschema.Draft2020
	}
}
