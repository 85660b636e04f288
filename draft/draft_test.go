package draft_test

import (
	"testing"

	"github.com/reoring/schemaforge/draft"
)

func TestLocal(t *testing.T) {
	schema := map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"required": []any{"id", "name"},
		"type":     "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": []any{"integer"}, "examples": []any{111111}},
			"name": map[string]any{"type": []any{"string"}},
		},
	}
	if got := draft.Local(schema); got != "http://json-schema.org/draft-07/schema#" {
		t.Fatalf("unexpected local draft: %q", got)
	}
	delete(schema, "$schema")
	if got := draft.Local(schema); got != "" {
		t.Fatalf("expected no local draft, got %q", got)
	}
	if got := draft.Local(nil); got != "" {
		t.Fatalf("nil schema must have no draft, got %q", got)
	}
}

func TestToUse(t *testing.T) {
	cases := []struct {
		local, fallback, want string
	}{
		{"", draft.URIDraft04, draft.URIDraft04},
		{draft.URIDraft06, draft.URIDraft04, draft.URIDraft06},
		{draft.URIDraft06, "", draft.URIDraft06},
		{"", "", ""},
	}
	for _, c := range cases {
		if got := draft.ToUse(c.local, c.fallback); got != c.want {
			t.Fatalf("ToUse(%q, %q) = %q, want %q", c.local, c.fallback, got, c.want)
		}
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want draft.Draft
	}{
		{"http://json-schema.org/draft-04/schema#", draft.Draft04},
		{"http://json-schema.org/draft-06/schema#", draft.Draft06},
		{"http://json-schema.org/draft-07/schema", draft.Draft07},
		{"https://json-schema.org/draft/2019-09/schema", draft.Draft2019},
		{"https://json-schema.org/draft/2020-12/schema", draft.Draft2020},
		{"2020-12", draft.Draft2020},
		{"", draft.Unspecified},
		{"https://spec.openapis.org/oas/3.1/dialect/base", draft.Unspecified},
	}
	for _, c := range cases {
		if got := draft.Parse(c.in); got != c.want {
			t.Fatalf("Parse(%q) = %q, want %q", c.in, got, c.want)
		}
		if known := draft.Known(c.in); known != (c.want != draft.Unspecified) {
			t.Fatalf("Known(%q) = %v", c.in, known)
		}
	}
	if draft.Draft2019.URI() != draft.URIDraft2019 || draft.Unspecified.URI() != "" {
		t.Fatalf("unexpected URI mapping")
	}
}

func TestEngineFor(t *testing.T) {
	if draft.EngineFor(draft.URIDraft04) != draft.EngineLegacy {
		t.Fatalf("draft-04 must use the legacy engine")
	}
	for _, uri := range []string{draft.URIDraft06, draft.URIDraft07, draft.URIDraft2019, draft.URIDraft2020, ""} {
		if e := draft.EngineFor(uri); e != draft.EngineStandard {
			t.Fatalf("%q: expected standard engine, got %s", uri, e)
		}
	}
}
