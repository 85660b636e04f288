package schemaforge

import (
	"errors"
	"fmt"
	"strings"
)

// Keywords reported in ValidationError.Keyword for the common rules.
const (
	KeywordType                 = "type"
	KeywordRequired             = "required"
	KeywordEnum                 = "enum"
	KeywordConst                = "const"
	KeywordPattern              = "pattern"
	KeywordFormat               = "format"
	KeywordAdditionalProperties = "additionalProperties"
	KeywordOneOf                = "oneOf"
	KeywordAnyOf                = "anyOf"
	KeywordNot                  = "not"
	KeywordFalse                = "false schema"
)

// ValidationError represents a single rule violation of an instance.
// It is data, never returned as a Go error on its own.
type ValidationError struct {
	// InstancePath points into the instance. The separator depends on the
	// engine that produced it: "/id" for the standard engine, ".id" for draft-04.
	InstancePath string `json:"instancePath"`
	SchemaPath   string `json:"schemaPath"` // "#/properties/id/type"
	Keyword      string `json:"keyword"`
	Message      string `json:"message"`
	// Params carries structured parameters such as {"missingProperty": "id"}.
	Params map[string]any `json:"params,omitempty"`
}

// ValidationErrors is the ordered outcome of a validation run. An empty
// collection is the only "valid" signal.
type ValidationErrors []ValidationError

// Error summarizes the first few errors.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(ve)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := ve[i]
		// e.g. type at /id
		fmt.Fprintf(b, "%s at %s", it.Keyword, displayPath(it.InstancePath))
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Keywords lists the keyword of every error, in order.
func (ve ValidationErrors) Keywords() []string {
	out := make([]string, len(ve))
	for i, e := range ve {
		out[i] = e.Keyword
	}
	return out
}

func displayPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}

// AsValidationErrors extracts ValidationErrors from an error using errors.As.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	if err == nil {
		return nil, false
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// MissingReferenceError reports a $ref that cannot be matched to a known
// component. It is suppressed when Options.IgnoreMissingRefs is set.
type MissingReferenceError struct {
	Ref string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("schemaforge: unresolved reference %q", e.Ref)
}

// SchemaCompilationError reports a schema the selected engine cannot compile.
// It is fatal and never retried.
type SchemaCompilationError struct {
	Draft string // dialect in effect, "" when unspecified
	Err   error
}

func (e *SchemaCompilationError) Error() string {
	d := e.Draft
	if d == "" {
		d = "unspecified dialect"
	}
	return fmt.Sprintf("schemaforge: compile schema (%s): %v", d, e.Err)
}

func (e *SchemaCompilationError) Unwrap() error { return e.Err }

// ErrInvalidOptions is returned when an options merge would produce an
// inconsistent configuration.
var ErrInvalidOptions = errors.New("schemaforge: invalid options")

// IsMissingReference reports whether err carries a MissingReferenceError.
func IsMissingReference(err error) bool {
	var mr *MissingReferenceError
	return errors.As(err, &mr)
}
