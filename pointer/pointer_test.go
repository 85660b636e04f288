package pointer_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/reoring/schemaforge"
	"github.com/reoring/schemaforge/pointer"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "a/b", "~", "~1", "~0/~1", "/Pets.yaml", "folder/pet.yaml", "a~b/c~~//"} {
		enc := pointer.Encode(s)
		if got := pointer.Decode(enc); got != s {
			t.Fatalf("round trip %q: encoded %q decoded %q", s, enc, got)
		}
	}
	if got := pointer.Encode("~/"); got != "~0~1" {
		t.Fatalf("unexpected encoding: %q", got)
	}
	if got := pointer.Decode("~01"); got != "~1" {
		t.Fatalf("~01 must decode to ~1, got %q", got)
	}
}

func TestConcat(t *testing.T) {
	if got := pointer.Concat("#/components/schemas", "other/Pets.yaml"); got != "#/components/schemas/other~1Pets.yaml" {
		t.Fatalf("unexpected pointer: %q", got)
	}
	if got := pointer.Concat("#/components/", "schemas", "Pet"); got != "#/components/schemas/Pet" {
		t.Fatalf("trailing slash on root must not double: %q", got)
	}
}

func TestSplit(t *testing.T) {
	got := pointer.Split("#/components/schemas/other~1Pets.yaml")
	want := []string{"components", "schemas", "other/Pets.yaml"}
	if !slices.Equal(got, want) {
		t.Fatalf("split: got %v want %v", got, want)
	}
	if pointer.Split("#") != nil {
		t.Fatalf("root pointer must have no segments")
	}
}

func TestKeyInComponents_PointingIntoComponents(t *testing.T) {
	k, err := pointer.KeyInComponents([]string{"components", "schemas"}, "pet.yaml")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(k.Segments) != 0 || !k.InComponents {
		t.Fatalf("expected ([], true), got %+v", k)
	}
}

func TestKeyInComponents_LocalFragmentInComponents(t *testing.T) {
	k, err := pointer.KeyInComponents([]string{"components", "schemas"}, "pet.yaml", "/definitions/world")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(k.Segments) != 0 || !k.InComponents {
		t.Fatalf("expected ([], true), got %+v", k)
	}
}

func TestKeyInComponents_EscapedSlashStaysOneSegment(t *testing.T) {
	root := []string{"path", "schemas"}
	k, err := pointer.KeyInComponents(root, "folder~1pet.yaml")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if k.InComponents {
		t.Fatalf("expected InComponents=false")
	}
	if !slices.Equal(k.Segments, []string{"schemas", "folder/pet.yaml"}) {
		t.Fatalf("unexpected segments: %q", k.Segments)
	}
	if !slices.Equal(root, []string{"path", "schemas"}) {
		t.Fatalf("caller root mutated: %v", root)
	}
}

func TestKeyInComponents_Missing(t *testing.T) {
	_, err := pointer.KeyInComponents([]string{"paths", "/pets"}, "pet.yaml", "#/definitions/x")
	var mr *schemaforge.MissingReferenceError
	if !errors.As(err, &mr) {
		t.Fatalf("expected MissingReferenceError, got %v", err)
	}
	if mr.Ref != "pet.yaml#/definitions/x" {
		t.Fatalf("unexpected ref: %q", mr.Ref)
	}

	k := pointer.KeyInComponentsLenient([]string{"paths", "/pets"}, "dir~1pet.yaml")
	if !slices.Equal(k.Segments, []string{"dir/pet.yaml"}) || k.InComponents {
		t.Fatalf("lenient key: %+v", k)
	}

	o := schemaforge.DefaultOptions().With(schemaforge.WithIgnoreMissingRefs(false))
	if _, err := pointer.ResolveKey(o, []string{"paths"}, "pet.yaml"); !schemaforge.IsMissingReference(err) {
		t.Fatalf("expected missing reference with ignoreMissingRefs=false, got %v", err)
	}
	o.IgnoreMissingRefs = true
	if _, err := pointer.ResolveKey(o, []string{"paths"}, "pet.yaml"); err != nil {
		t.Fatalf("expected suppression, got %v", err)
	}
}

func TestRelationToRoot(t *testing.T) {
	cases := []struct {
		ref  string
		key  []string
		want string
	}{
		{"Pets.yaml", []string{"schemas", "Pets.yaml"}, "#/components/schemas/Pets.yaml"},
		{"hello.yaml#/definitions/world", []string{"schemas", "hello.yaml"}, "#/components/schemas/hello.yaml"},
		{"#/components/schemas/Error", []string{"components", "schemas", "Error"}, "#/components/schemas/Error"},
		{"other/Pets.yaml", []string{"schemas", "other/Pets.yaml"}, "#/components/schemas/other~1Pets.yaml"},
	}
	for _, c := range cases {
		got := pointer.RelationToRoot(pointer.Encode, c.ref, c.key)
		if got != c.want {
			t.Fatalf("%q: got %q want %q", c.ref, got, c.want)
		}
		if again := pointer.RelationToRoot(pointer.Encode, got, c.key); again != got {
			t.Fatalf("not idempotent: %q -> %q", got, again)
		}
	}
}

func TestConcatComponents(t *testing.T) {
	cases := []struct {
		want string
		segs []string
	}{
		{"#/components/schemas/Pets.yaml", []string{"schemas", "Pets.yaml"}},
		{"#/components/schemas/other~1Pets.yaml", []string{"schemas", "other/Pets.yaml"}},
		{"#/components/schemas/some~1Pet.yaml", []string{"schemas", "some/Pet.yaml"}},
		{"#/components/schemas/hello.yaml", []string{"schemas", "hello.yaml"}},
		{"#/components/schemas/~1Pets.yaml", []string{"schemas", "/Pets.yaml"}},
	}
	for _, c := range cases {
		if got := pointer.ConcatComponents(pointer.Encode, c.segs); got != c.want {
			t.Fatalf("%v: got %q want %q", c.segs, got, c.want)
		}
	}
}

func TestIndex_Lookup(t *testing.T) {
	pet := map[string]any{"type": "object"}
	doc := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet":             pet,
				"other/Pets.yaml": map[string]any{"type": "array", "items": []any{map[string]any{"type": "string"}}},
			},
		},
	}
	ix := pointer.NewIndex(doc)
	if ix.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", ix.Len())
	}
	if !slices.Equal(ix.Pointers(), []string{"#/components/schemas/Pet", "#/components/schemas/other~1Pets.yaml"}) {
		t.Fatalf("unexpected pointers: %v", ix.Pointers())
	}
	n, err := ix.Lookup("#/components/schemas/Pet")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if n.(map[string]any)["type"] != "object" {
		t.Fatalf("unexpected node: %#v", n)
	}
	n, err = ix.Lookup("#/components/schemas/other~1Pets.yaml/items/0")
	if err != nil {
		t.Fatalf("nested lookup: %v", err)
	}
	if n.(map[string]any)["type"] != "string" {
		t.Fatalf("unexpected nested node: %#v", n)
	}
	if _, err := ix.Lookup("#/components/schemas/Nope"); !schemaforge.IsMissingReference(err) {
		t.Fatalf("expected missing reference, got %v", err)
	}
	if _, err := ix.Lookup("Pet.yaml"); !schemaforge.IsMissingReference(err) {
		t.Fatalf("non-local refs are not resolvable: %v", err)
	}
}
