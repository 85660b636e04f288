package loader_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reoring/schemaforge/loader"
)

func TestDecode_JSONKeepsNumbers(t *testing.T) {
	v, err := loader.Decode([]byte(` {"id": 9007199254740993, "tags": ["a"]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(map[string]any)
	n, ok := m["id"].(json.Number)
	if !ok || n.String() != "9007199254740993" {
		t.Fatalf("expected exact json.Number, got %#v", m["id"])
	}
}

func TestDecode_YAML(t *testing.T) {
	src := []byte("type: object\nproperties:\n  name:\n    type: string\n    example: rex\nrequired: [name]\n")
	v, err := loader.Decode(src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(map[string]any)
	props := m["properties"].(map[string]any)
	name := props["name"].(map[string]any)
	if name["example"] != "rex" {
		t.Fatalf("unexpected yaml tree: %#v", m)
	}
	if req := m["required"].([]any); len(req) != 1 || req[0] != "name" {
		t.Fatalf("unexpected required: %#v", m["required"])
	}
}

func TestReadSchemaFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pet.yaml")
	if err := os.WriteFile(p, []byte("type: object\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := loader.ReadSchemaFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if m["type"] != "object" {
		t.Fatalf("unexpected: %#v", m)
	}

	arr := filepath.Join(dir, "list.json")
	if err := os.WriteFile(arr, []byte(`[1,2]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loader.ReadSchemaFile(arr); err == nil {
		t.Fatalf("array root must be rejected")
	}
}

func TestCanonical_DeepCopies(t *testing.T) {
	in := map[string]any{"a": []any{1, map[string]any{"b": 2.5}}}
	out, err := loader.Canonical(in)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	om := out.(map[string]any)
	om["a"].([]any)[1].(map[string]any)["b"] = "changed"
	if in["a"].([]any)[1].(map[string]any)["b"] != 2.5 {
		t.Fatalf("canonical copy shares state with input")
	}
	if _, ok := om["a"].([]any)[0].(json.Number); !ok {
		t.Fatalf("numbers must become json.Number: %#v", om["a"])
	}
}

func TestDuplicateKeys(t *testing.T) {
	data := []byte(`{"type":"object","properties":{"id":{"type":"string"},"id":{"type":"integer"}},"items":[{"a":1,"a":2}],"type":"array"}`)
	dups, err := loader.DuplicateKeys(data)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(dups) != 3 {
		t.Fatalf("expected three duplicates, got %v", dups)
	}
	if dups[0].Path != "/properties" || dups[0].Key != "id" {
		t.Fatalf("unexpected first duplicate: %+v", dups[0])
	}
	if dups[1].Path != "/items/0" || dups[1].Key != "a" {
		t.Fatalf("unexpected second duplicate: %+v", dups[1])
	}
	if dups[2].Path != "" || dups[2].Key != "type" {
		t.Fatalf("unexpected third duplicate: %+v", dups[2])
	}
}

func TestDecodeStrict(t *testing.T) {
	_, err := loader.DecodeStrict([]byte(`{"a":1,"a":2}`))
	var de *loader.DuplicateKeyError
	if !errors.As(err, &de) || len(de.Keys) != 1 {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	v, err := loader.DecodeStrict([]byte(`{"a":[1,{"b":true}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := v.(map[string]any)["a"].([]any); !ok {
		t.Fatalf("unexpected value: %#v", v)
	}
	if _, err := loader.DecodeStrict([]byte("a: 1\na: 2\n")); err == nil {
		t.Fatalf("YAML duplicates must fail too")
	}
}
