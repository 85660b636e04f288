package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/schemaforge"
	"github.com/reoring/schemaforge/i18n"
	"github.com/reoring/schemaforge/loader"
	"github.com/reoring/schemaforge/pointer"
	"github.com/reoring/schemaforge/synth"
	"github.com/reoring/schemaforge/validate"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		os.Exit(validateCmd(os.Args[2:], os.Stdout))
	case "generate":
		generateCmd(os.Args[2:], os.Stdout)
	case "pointer":
		pointerCmd(os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `schemaforge CLI

Usage:
  schemaforge validate [-doc openapi.yaml -ref #/components/schemas/Pet | -schema s.json] -instance i.json [-dialect URI] [-lang en|ja]
  schemaforge generate [-doc openapi.yaml -ref #/components/schemas/Pet | -schema s.json] [-seed N] [-examples] [-required-only]
  schemaforge pointer -root path,schemas -name folder~1pet.yaml
  schemaforge pointer -doc openapi.yaml

Notes:
  - Options default to SCHEMAFORGE_* environment variables; flags win.
  - validate exits 1 when the instance has errors.`)
}

// common holds the flags shared by validate and generate.
type common struct {
	doc     string
	ref     string
	schema  string
	dialect string
	strict  bool
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.doc, "doc", "", "OpenAPI document whose components resolve $refs")
	fs.StringVar(&c.ref, "ref", "", "schema pointer inside -doc")
	fs.StringVar(&c.schema, "schema", "", "schema file (JSON or YAML)")
	fs.StringVar(&c.dialect, "dialect", "", "fallback JSON Schema dialect")
	fs.BoolVar(&c.strict, "strict", false, "reject JSON documents with duplicate keys")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logs")
}

func (c *common) logger() *slog.Logger {
	lvl := slog.LevelInfo
	if c.verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func (c *common) read(path string) (any, error) {
	if c.strict {
		return loader.ReadFileStrict(path)
	}
	return loader.ReadFile(path)
}

// load returns the schema and, when -doc is given, the component index.
func (c *common) load() (any, *pointer.Index) {
	var ix *pointer.Index
	if c.doc != "" {
		v, err := c.read(c.doc)
		if err != nil {
			fatalf("reading document: %v", err)
		}
		doc, ok := v.(map[string]any)
		if !ok {
			fatalf("reading document: root is %T, want object", v)
		}
		ix = pointer.NewIndex(doc)
	}
	switch {
	case c.schema != "":
		s, err := c.read(c.schema)
		if err != nil {
			fatalf("reading schema: %v", err)
		}
		return s, ix
	case c.ref != "" && ix != nil:
		s, err := ix.Lookup(c.ref)
		if err != nil {
			fatalf("resolving %s: %v", c.ref, err)
		}
		return s, ix
	}
	fatalf("one of -schema or -doc with -ref is required")
	return nil, nil
}

func (c *common) options(extra ...schemaforge.Option) schemaforge.Options {
	o, err := schemaforge.OptionsFromEnv()
	if err != nil {
		fatalf("options: %v", err)
	}
	if c.dialect != "" {
		extra = append(extra, schemaforge.WithJSONSchemaDialect(c.dialect))
	}
	o = o.With(extra...)
	if err := o.Validate(); err != nil {
		fatalf("options: %v", err)
	}
	return o
}

func validateCmd(args []string, w io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var c common
	var instance, lang string
	c.register(fs)
	fs.StringVar(&instance, "instance", "", "instance file (JSON or YAML)")
	fs.StringVar(&lang, "lang", "en", "message language (en, ja)")
	_ = fs.Parse(args)
	if instance == "" {
		fs.Usage()
		return 2
	}
	i18n.SetLanguage(lang)
	schema, ix := c.load()
	inst, err := c.read(instance)
	if err != nil {
		fatalf("reading instance: %v", err)
	}
	o := c.options()
	errs, err := validate.Schema(schema, inst, &o, validate.WithRefs(ix), validate.WithLogger(c.logger()))
	if err != nil {
		fatalf("validate: %v", err)
	}
	if errs == nil {
		errs = schemaforge.ValidationErrors{}
	}
	writeJSON(w, errs)
	if len(errs) > 0 {
		return 1
	}
	return 0
}

func generateCmd(args []string, w io.Writer) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var c common
	var seed int64
	var examples, requiredOnly bool
	c.register(fs)
	fs.Int64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
	fs.BoolVar(&examples, "examples", false, "prefer example values")
	fs.BoolVar(&requiredOnly, "required-only", false, "emit required properties only")
	_ = fs.Parse(args)

	schema, ix := c.load()
	var extra []schemaforge.Option
	if seed != 0 {
		extra = append(extra, schemaforge.WithSeed(seed))
	}
	if examples {
		extra = append(extra, schemaforge.WithUseExamplesValue(true))
	}
	if requiredOnly {
		extra = append(extra, schemaforge.WithRequiredOnly(true))
	}
	o := c.options(extra...)
	v, err := synth.Synthesize(schema, &o, synth.WithRefs(ix), synth.WithLogger(c.logger()))
	if err != nil {
		fatalf("generate: %v", err)
	}
	writeJSON(w, v)
}

// pointerCmd prints the canonical component pointer for a file reference, or
// every component pointer of a document with -doc.
func pointerCmd(args []string, w io.Writer) {
	fs := flag.NewFlagSet("pointer", flag.ExitOnError)
	var root, name, doc string
	fs.StringVar(&root, "root", "", "comma-separated path of the referencing location")
	fs.StringVar(&name, "name", "", "referenced file or component name (pointer-encoded)")
	fs.StringVar(&doc, "doc", "", "list the component pointers of this document")
	_ = fs.Parse(args)

	if doc != "" {
		d, err := loader.ReadSchemaFile(doc)
		if err != nil {
			fatalf("reading document: %v", err)
		}
		for _, p := range pointer.NewIndex(d).Pointers() {
			fmt.Fprintln(w, p)
		}
		return
	}
	if root == "" || name == "" {
		fs.Usage()
		os.Exit(2)
	}
	key, err := pointer.ResolveKey(schemaforge.Current(), splitCSV(root), name)
	if err != nil {
		fatalf("pointer: %v", err)
	}
	fmt.Fprintln(w, pointer.RelationToRoot(pointer.Encode, name, key.Segments))
}

func writeJSON(w io.Writer, v any) {
	enc := j.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatalf("encoding output: %v", err)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
