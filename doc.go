// Package schemaforge provides:
//
//   - Canonical component pointers for JSON Schema / OpenAPI $refs (package pointer)
//   - Dialect selection across JSON Schema drafts 04 to 2020-12 (package draft)
//   - Instance validation with a stable error model (package validate)
//   - Example synthesis from schemas (package synth)
//
// Design policy:
//
//   - Keep the shared data model, options and error taxonomy in the root package.
//   - Subpackages import the root, never the reverse.
//   - Configuration is an explicit Options value; a process-wide default exists
//     for convenience and is read when callers pass nil.
//
// Typical usage:
//
//	errs, err := validate.Schema(schema, instance, nil)
//	v, err := synth.Synthesize(schema, nil)
//
//	o := schemaforge.DefaultOptions().With(schemaforge.WithRequiredOnly(true))
//	v, err = synth.Synthesize(schema, &o)
package schemaforge
