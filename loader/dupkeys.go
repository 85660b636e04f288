package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/reoring/schemaforge/pointer"
)

// DuplicateKey is an object member declared more than once.
type DuplicateKey struct {
	Path string // pointer to the object holding the key, "" for the root
	Key  string
}

func (d DuplicateKey) String() string {
	p := d.Path
	if p == "" {
		p = "(root)"
	}
	return fmt.Sprintf("key %q duplicated at %s", d.Key, p)
}

// DuplicateKeyError reports every duplicated key of a JSON document. Decoders
// silently keep the last value, so schemas with duplicates lose keywords.
type DuplicateKeyError struct {
	Keys []DuplicateKey
}

func (e *DuplicateKeyError) Error() string {
	parts := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		parts[i] = k.String()
	}
	return "loader: " + strings.Join(parts, "; ")
}

type frame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	seg          string // segment of the child being read
	index        int
}

// DuplicateKeys scans a JSON document token by token and lists duplicated
// object keys in document order.
func DuplicateKeys(data []byte) ([]DuplicateKey, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var (
		out   []DuplicateKey
		stack []*frame
	)
	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	beforeValue := func() {
		if f := top(); f != nil && !f.object {
			f.seg = strconv.Itoa(f.index)
			f.index++
		}
	}
	afterValue := func() {
		if f := top(); f != nil && f.object {
			f.expectingKey = true
		}
	}
	here := func() string {
		segs := make([]string, 0, len(stack))
		for _, f := range stack[:len(stack)-1] {
			segs = append(segs, f.seg)
		}
		if len(segs) == 0 {
			return ""
		}
		return pointer.Concat("", segs...)
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("loader: invalid JSON: %w", err)
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				beforeValue()
				stack = append(stack, &frame{object: v == '{', keys: map[string]struct{}{}, expectingKey: v == '{'})
			case '}', ']':
				stack = stack[:len(stack)-1]
				afterValue()
			}
		case string:
			if f := top(); f != nil && f.object && f.expectingKey {
				if _, dup := f.keys[v]; dup {
					out = append(out, DuplicateKey{Path: here(), Key: v})
				}
				f.keys[v] = struct{}{}
				f.seg = v
				f.expectingKey = false
				continue
			}
			beforeValue()
			afterValue()
		default:
			beforeValue()
			afterValue()
		}
	}
}

// DecodeStrict is Decode with duplicate JSON object keys rejected as a
// *DuplicateKeyError. YAML input already fails on duplicate mapping keys.
func DecodeStrict(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		dups, err := DuplicateKeys(trimmed)
		if err != nil {
			return nil, err
		}
		if len(dups) > 0 {
			return nil, &DuplicateKeyError{Keys: dups}
		}
		return DecodeJSON(trimmed)
	}
	return DecodeYAML(data)
}

// ReadFileStrict is ReadFile with DecodeStrict.
func ReadFileStrict(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := DecodeStrict(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
