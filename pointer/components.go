package pointer

import (
	"slices"
	"strings"

	"github.com/reoring/schemaforge"
)

// ComponentsKey is the shared top-level key under which reusable definitions live.
const ComponentsKey = "components"

const localPointer = "#"

// componentTypes are the OpenAPI keys allowed directly under components.
var componentTypes = []string{
	"schemas", "responses", "parameters", "examples", "requestBodies",
	"headers", "securitySchemes", "links", "callbacks", "pathItems",
}

// IsComponentType reports whether name is an OpenAPI components entry type.
func IsComponentType(name string) bool { return slices.Contains(componentTypes, name) }

// ComponentKey is the canonical location of a reference relative to the
// components root.
type ComponentKey struct {
	// Segments re-anchor the reference under the components root; empty when
	// InComponents is true.
	Segments []string
	// InComponents is true when the reference already lives directly under
	// the components root.
	InComponents bool
}

// KeyInComponents computes the component key of fileOrName reached through
// the trace root (e.g. ["components","schemas"]). A local fragment never
// changes the result: the whole referenced document is one component.
//
// It returns a *schemaforge.MissingReferenceError when no component type
// occurs in the trace.
func KeyInComponents(root []string, fileOrName string, localFragment ...string) (ComponentKey, error) {
	if len(root) > 0 && root[0] == ComponentsKey {
		return ComponentKey{Segments: []string{}, InComponents: true}, nil
	}
	trace := append(slices.Clone(root), Decode(fileOrName))
	var key []string
	found := false
	for i := len(trace) - 1; i >= 0; i-- {
		key = append(key, trace[i])
		if i < len(trace)-1 && IsComponentType(trace[i]) {
			found = true
			break
		}
	}
	if !found {
		return ComponentKey{}, &schemaforge.MissingReferenceError{Ref: refString(fileOrName, localFragment)}
	}
	slices.Reverse(key)
	return ComponentKey{Segments: key}, nil
}

// KeyInComponentsLenient behaves like KeyInComponents but degrades an
// unmatched reference to an opaque root-level entry.
func KeyInComponentsLenient(root []string, fileOrName string, localFragment ...string) ComponentKey {
	k, err := KeyInComponents(root, fileOrName, localFragment...)
	if err != nil {
		return ComponentKey{Segments: []string{Decode(fileOrName)}}
	}
	return k
}

// ResolveKey picks KeyInComponents or its lenient form according to o.
func ResolveKey(o schemaforge.Options, root []string, fileOrName string, localFragment ...string) (ComponentKey, error) {
	if o.IgnoreMissingRefs {
		return KeyInComponentsLenient(root, fileOrName, localFragment...), nil
	}
	return KeyInComponents(root, fileOrName, localFragment...)
}

// RelationToRoot returns the canonical "#/components/..." pointer for ref.
// References that are already local pointers are returned unchanged, which
// makes the function idempotent over its own output.
func RelationToRoot(enc Encoder, ref string, key []string) string {
	if strings.HasPrefix(ref, localPointer) {
		return ref
	}
	return ConcatComponents(enc, key)
}

// ConcatComponents prefixes "#/components/" and joins the encoded segments.
func ConcatComponents(enc Encoder, segments []string) string {
	if enc == nil {
		enc = Encode
	}
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = enc(s)
	}
	return localPointer + "/" + ComponentsKey + "/" + strings.Join(parts, "/")
}

func refString(file string, fragment []string) string {
	if len(fragment) == 0 || fragment[0] == "" {
		return file
	}
	f := fragment[0]
	if !strings.HasPrefix(f, localPointer) {
		f = localPointer + f
	}
	return file + f
}
