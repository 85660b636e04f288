package schemaforge

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/joeshaw/envdecode"
)

// Options configures synthesis and validation. The zero value is not useful;
// start from DefaultOptions or Current.
type Options struct {
	// RequiredOnly emits required properties only.
	RequiredOnly bool `env:"SCHEMAFORGE_REQUIRED_ONLY,default=false"`
	// OptionalsProbability is the chance (0..1) an optional property is emitted.
	OptionalsProbability float64 `env:"SCHEMAFORGE_OPTIONALS_PROBABILITY,default=1.0"`
	// MinItems and MaxItems bound synthesized arrays when no example or
	// default applies.
	MinItems int `env:"SCHEMAFORGE_MIN_ITEMS,default=1"`
	MaxItems int `env:"SCHEMAFORGE_MAX_ITEMS,default=20"`
	// MaxLength caps synthesized string length.
	MaxLength        int  `env:"SCHEMAFORGE_MAX_LENGTH,default=256"`
	UseDefaultValue  bool `env:"SCHEMAFORGE_USE_DEFAULT_VALUE,default=true"`
	UseExamplesValue bool `env:"SCHEMAFORGE_USE_EXAMPLES_VALUE,default=false"`
	// IgnoreMissingRefs degrades unresolved references instead of failing.
	IgnoreMissingRefs bool `env:"SCHEMAFORGE_IGNORE_MISSING_REFS,default=true"`
	// AvoidExampleItemsLength, when false, returns an array example with more
	// than two elements verbatim instead of regenerating it item by item.
	AvoidExampleItemsLength bool `env:"SCHEMAFORGE_AVOID_EXAMPLE_ITEMS_LENGTH,default=true"`
	// IncludeDeprecated controls whether deprecated properties are generated
	// and type-checked. Requiredness is enforced either way.
	IncludeDeprecated bool `env:"SCHEMAFORGE_INCLUDE_DEPRECATED,default=true"`
	// JSONSchemaDialect is the fallback dialect used when a schema declares no $schema.
	JSONSchemaDialect string `env:"SCHEMAFORGE_JSON_SCHEMA_DIALECT"`
	// Seed makes synthesis deterministic; 0 seeds from the clock.
	Seed int64 `env:"SCHEMAFORGE_SEED"`
}

// DefaultOptions returns the options used at global level.
func DefaultOptions() Options {
	return Options{
		RequiredOnly:            false,
		OptionalsProbability:    1.0,
		MinItems:                1,
		MaxItems:                20,
		MaxLength:               256,
		UseDefaultValue:         true,
		UseExamplesValue:        false,
		IgnoreMissingRefs:       true,
		AvoidExampleItemsLength: true,
		IncludeDeprecated:       true,
	}
}

// Validate checks the options for internal consistency.
func (o Options) Validate() error {
	switch {
	case o.OptionalsProbability < 0 || o.OptionalsProbability > 1:
		return fmt.Errorf("%w: optionalsProbability %v outside [0,1]", ErrInvalidOptions, o.OptionalsProbability)
	case o.MinItems < 0 || o.MaxItems < 0:
		return fmt.Errorf("%w: minItems/maxItems must be non-negative", ErrInvalidOptions)
	case o.MinItems > o.MaxItems:
		return fmt.Errorf("%w: minItems %d > maxItems %d", ErrInvalidOptions, o.MinItems, o.MaxItems)
	case o.MaxLength < 0:
		return fmt.Errorf("%w: maxLength must be non-negative", ErrInvalidOptions)
	}
	return nil
}

// With returns a copy of o with the given options applied.
func (o Options) With(opts ...Option) Options {
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Option mutates Options during a merge.
type Option func(*Options)

func WithRequiredOnly(v bool) Option { return func(o *Options) { o.RequiredOnly = v } }

func WithOptionalsProbability(p float64) Option {
	return func(o *Options) { o.OptionalsProbability = p }
}

// WithItems sets both array bounds.
func WithItems(minItems, maxItems int) Option {
	return func(o *Options) { o.MinItems, o.MaxItems = minItems, maxItems }
}

func WithMaxLength(n int) Option            { return func(o *Options) { o.MaxLength = n } }
func WithUseDefaultValue(v bool) Option     { return func(o *Options) { o.UseDefaultValue = v } }
func WithUseExamplesValue(v bool) Option    { return func(o *Options) { o.UseExamplesValue = v } }
func WithIgnoreMissingRefs(v bool) Option   { return func(o *Options) { o.IgnoreMissingRefs = v } }
func WithIncludeDeprecated(v bool) Option   { return func(o *Options) { o.IncludeDeprecated = v } }
func WithJSONSchemaDialect(d string) Option { return func(o *Options) { o.JSONSchemaDialect = d } }
func WithSeed(seed int64) Option            { return func(o *Options) { o.Seed = seed } }
func WithAvoidExampleItemsLength(v bool) Option {
	return func(o *Options) { o.AvoidExampleItemsLength = v }
}

var current atomic.Pointer[Options]

func init() { Reset() }

// Current returns a copy of the process-wide options.
func Current() Options { return *current.Load() }

// Configure merges opts into the process-wide options. The merge is rejected
// as a whole when the result is inconsistent. Concurrent writers are not
// coordinated; the last write wins.
func Configure(opts ...Option) error {
	next := Current().With(opts...)
	if err := next.Validate(); err != nil {
		return err
	}
	current.Store(&next)
	return nil
}

// Reset restores the process-wide options to DefaultOptions.
func Reset() {
	d := DefaultOptions()
	current.Store(&d)
}

// Resolve returns *o, or Current when o is nil.
func Resolve(o *Options) Options {
	if o == nil {
		return Current()
	}
	return *o
}

// OptionsFromEnv decodes SCHEMAFORGE_* environment variables on top of the
// defaults.
func OptionsFromEnv() (Options, error) {
	o := DefaultOptions()
	if err := envdecode.Decode(&o); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Options{}, fmt.Errorf("schemaforge: decode env: %w", err)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}
