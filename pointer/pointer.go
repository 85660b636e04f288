// Package pointer encodes JSON Pointer segments (RFC 6901) and resolves
// references into canonical "#/components/..." pointers.
package pointer

import "strings"

// Encoder escapes a single pointer segment.
type Encoder func(string) string

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Encode escapes '~' -> '~0' and '/' -> '~1'.
func Encode(raw string) string {
	if !strings.ContainsAny(raw, "~/") {
		return raw
	}
	return escaper.Replace(raw)
}

// Decode is the exact inverse of Encode.
func Decode(enc string) string {
	if !strings.Contains(enc, "~") {
		return enc
	}
	return unescaper.Replace(enc)
}

// Concat joins root with each segment encoded and '/'-separated.
func Concat(root string, segments ...string) string {
	b := &strings.Builder{}
	b.WriteString(strings.TrimSuffix(root, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(Encode(s))
	}
	return b.String()
}

// Split breaks "#/a/b", "/a/b" or "a/b" into decoded segments. The document
// root ("#" or "") yields no segments.
func Split(p string) []string {
	p = strings.TrimPrefix(p, "#")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = Decode(s)
	}
	return parts
}
