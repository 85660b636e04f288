package pointer

import (
	"slices"
	"strconv"

	"github.com/reoring/schemaforge"
)

// Index is a lookup table of the components of one document keyed by
// canonical pointer ("#/components/schemas/Pet").
type Index struct {
	doc     map[string]any
	entries map[string]any
}

// NewIndex indexes every entry under doc["components"]. A document without
// components yields an empty index that can still Resolve local pointers.
func NewIndex(doc map[string]any) *Index {
	ix := &Index{doc: doc, entries: map[string]any{}}
	comps, _ := doc[ComponentsKey].(map[string]any)
	for typ, raw := range comps {
		group, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for name, node := range group {
			ix.entries[ConcatComponents(Encode, []string{typ, name})] = node
		}
	}
	return ix
}

// Len reports the number of indexed components.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Document returns the indexed document. It is shared, not copied.
func (ix *Index) Document() map[string]any {
	if ix == nil {
		return nil
	}
	return ix.doc
}

// Pointers returns the indexed canonical pointers in sorted order.
func (ix *Index) Pointers() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, 0, len(ix.entries))
	for p := range ix.entries {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Lookup returns the node a local reference points to. Component pointers
// hit the table directly; other local pointers are walked in the document.
func (ix *Index) Lookup(ref string) (any, error) {
	if ix == nil {
		return nil, &schemaforge.MissingReferenceError{Ref: ref}
	}
	if n, ok := ix.entries[ref]; ok {
		return n, nil
	}
	return Resolve(ix.doc, ref)
}

// Resolve walks a local JSON pointer ("#/a/0/b") inside doc.
func Resolve(doc any, ref string) (any, error) {
	if len(ref) == 0 || ref[0] != '#' {
		return nil, &schemaforge.MissingReferenceError{Ref: ref}
	}
	cur := doc
	for _, seg := range Split(ref) {
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[seg]
			if !ok {
				return nil, &schemaforge.MissingReferenceError{Ref: ref}
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(t) {
				return nil, &schemaforge.MissingReferenceError{Ref: ref}
			}
			cur = t[i]
		default:
			return nil, &schemaforge.MissingReferenceError{Ref: ref}
		}
	}
	return cur, nil
}
