package schemaforge_test

import (
	"errors"
	"testing"

	"github.com/reoring/schemaforge"
)

func TestConfigure_MergeAndReset(t *testing.T) {
	t.Cleanup(schemaforge.Reset)

	if err := schemaforge.Configure(
		schemaforge.WithUseExamplesValue(true),
		schemaforge.WithAvoidExampleItemsLength(false),
	); err != nil {
		t.Fatalf("configure: %v", err)
	}
	// A second merge keeps earlier settings.
	if err := schemaforge.Configure(schemaforge.WithItems(2, 4)); err != nil {
		t.Fatalf("configure: %v", err)
	}
	cur := schemaforge.Current()
	if !cur.UseExamplesValue || cur.AvoidExampleItemsLength || cur.MinItems != 2 || cur.MaxItems != 4 {
		t.Fatalf("merge lost settings: %+v", cur)
	}

	schemaforge.Reset()
	if schemaforge.Current() != schemaforge.DefaultOptions() {
		t.Fatalf("reset must restore defaults: %+v", schemaforge.Current())
	}
}

func TestConfigure_RejectsInconsistentOptions(t *testing.T) {
	t.Cleanup(schemaforge.Reset)

	cases := []schemaforge.Option{
		schemaforge.WithOptionalsProbability(1.5),
		schemaforge.WithOptionalsProbability(-0.1),
		schemaforge.WithItems(5, 1),
		schemaforge.WithItems(-1, 3),
		schemaforge.WithMaxLength(-1),
	}
	for i, opt := range cases {
		err := schemaforge.Configure(opt)
		if !errors.Is(err, schemaforge.ErrInvalidOptions) {
			t.Fatalf("case %d: expected ErrInvalidOptions, got %v", i, err)
		}
	}
	if schemaforge.Current() != schemaforge.DefaultOptions() {
		t.Fatalf("rejected merges must not change the options")
	}
}

func TestDefaultOptions(t *testing.T) {
	d := schemaforge.DefaultOptions()
	if d.RequiredOnly || d.OptionalsProbability != 1.0 || d.MaxLength != 256 ||
		d.MinItems != 1 || d.MaxItems != 20 || !d.UseDefaultValue || !d.IgnoreMissingRefs ||
		!d.AvoidExampleItemsLength || !d.IncludeDeprecated || d.UseExamplesValue {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestResolve(t *testing.T) {
	t.Cleanup(schemaforge.Reset)
	_ = schemaforge.Configure(schemaforge.WithRequiredOnly(true))
	if !schemaforge.Resolve(nil).RequiredOnly {
		t.Fatalf("nil must read the process-wide options")
	}
	explicit := schemaforge.DefaultOptions()
	if schemaforge.Resolve(&explicit).RequiredOnly {
		t.Fatalf("explicit options must win")
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("SCHEMAFORGE_REQUIRED_ONLY", "true")
	t.Setenv("SCHEMAFORGE_MAX_ITEMS", "3")
	t.Setenv("SCHEMAFORGE_JSON_SCHEMA_DIALECT", "http://json-schema.org/draft-04/schema#")
	o, err := schemaforge.OptionsFromEnv()
	if err != nil {
		t.Fatalf("env: %v", err)
	}
	if !o.RequiredOnly || o.MaxItems != 3 || o.MinItems != 1 || o.JSONSchemaDialect != "http://json-schema.org/draft-04/schema#" {
		t.Fatalf("unexpected options: %+v", o)
	}

	t.Setenv("SCHEMAFORGE_MIN_ITEMS", "9")
	if _, err := schemaforge.OptionsFromEnv(); !errors.Is(err, schemaforge.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}
