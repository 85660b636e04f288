package validate

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/reoring/schemaforge"
	"github.com/reoring/schemaforge/i18n"
	"github.com/reoring/schemaforge/pointer"
)

var printer = message.NewPrinter(language.English)

// templateVar matches unresolved template variables such as "{{orderId}}".
var templateVar = regexp.MustCompile(`^{{.+}}$`)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// placeholderTypes maps pseudo-type markers used for loosely typed values to
// the JSON types they stand for.
var placeholderTypes = map[string][]string{
	"<integer>": {"integer", "number"},
	"<long>":    {"integer", "number"},
	"<number>":  {"number"},
	"<float>":   {"number"},
	"<double>":  {"number"},
	"<boolean>": {"boolean"},
}

// normalize flattens the engine's error tree depth first. Container errors
// (schema, group, $ref, and composites that carry causes) are not reported;
// their leaves are. A failing oneOf therefore yields each branch's reasons
// in declaration order.
func (e *engine) normalize(root *jsonschema.ValidationError, inst any, log *slog.Logger) schemaforge.ValidationErrors {
	out := schemaforge.ValidationErrors{}
	var walk func(ve *jsonschema.ValidationError)
	walk = func(ve *jsonschema.ValidationError) {
		if _, ok := ve.ErrorKind.(*kind.PropertyNames); ok {
			// Reported again by the engine as plain pattern/type failures.
			return
		}
		if len(ve.Causes) > 0 {
			for _, c := range ve.Causes {
				walk(c)
			}
			return
		}
		recs := e.records(ve, inst)
		if reason := relaxed(ve, inst); reason != "" {
			for _, rec := range recs {
				log.Debug("error dropped", "keyword", rec.Keyword, "instancePath", rec.InstancePath, "reason", reason)
			}
			return
		}
		out = append(out, recs...)
	}
	walk(root)
	return out
}

// records converts one leaf engine error into one or more ValidationErrors.
func (e *engine) records(ve *jsonschema.ValidationError, inst any) []schemaforge.ValidationError {
	kw := keywordOf(ve.ErrorKind)
	if kw == "" {
		return nil
	}
	base := schemaforge.ValidationError{
		InstancePath: e.instancePath(inst, ve.InstanceLocation),
		SchemaPath:   schemaPath(ve.SchemaURL, ve.ErrorKind.KeywordPath()),
		Keyword:      kw,
	}
	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		out := make([]schemaforge.ValidationError, 0, len(k.Missing))
		for _, name := range k.Missing {
			out = append(out, withParams(base, ve, map[string]any{"missingProperty": name}))
		}
		return out
	case *kind.AdditionalProperties:
		out := make([]schemaforge.ValidationError, 0, len(k.Properties))
		for _, name := range k.Properties {
			out = append(out, withParams(base, ve, map[string]any{"additionalProperty": name}))
		}
		return out
	case *kind.Type:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"type": strings.Join(k.Want, ",")})}
	case *kind.Enum:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"allowedValues": k.Want})}
	case *kind.Const:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"allowedValue": k.Want})}
	case *kind.Pattern:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"pattern": k.Want})}
	case *kind.Format:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"format": k.Want})}
	case *kind.OneOf:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"passingSchemas": k.Subschemas})}
	case *kind.MinLength:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"limit": k.Want})}
	case *kind.MaxLength:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"limit": k.Want})}
	case *kind.MinItems:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"limit": k.Want})}
	case *kind.MaxItems:
		return []schemaforge.ValidationError{withParams(base, ve, map[string]any{"limit": k.Want})}
	}
	return []schemaforge.ValidationError{withParams(base, ve, map[string]any{})}
}

func withParams(base schemaforge.ValidationError, ve *jsonschema.ValidationError, params map[string]any) schemaforge.ValidationError {
	base.Params = params
	data := make(map[string]string, len(params))
	for k, v := range params {
		data[k] = fmt.Sprint(v)
	}
	if msg := i18n.T(base.Keyword, data); msg != "" {
		base.Message = msg
	} else {
		base.Message = ve.ErrorKind.LocalizedString(printer)
	}
	return base
}

func keywordOf(k jsonschema.ErrorKind) string {
	switch k.(type) {
	case *kind.Group, *kind.Schema, *kind.Reference:
		return ""
	}
	if p := k.KeywordPath(); len(p) > 0 {
		return p[0]
	}
	// Only the false schema fails without a keyword.
	return schemaforge.KeywordFalse
}

// schemaPath renders "#/<location fragment>/<keyword path>".
func schemaPath(schemaURL string, kwPath []string) string {
	frag := ""
	if i := strings.IndexByte(schemaURL, '#'); i >= 0 {
		frag = schemaURL[i+1:]
	}
	b := &strings.Builder{}
	b.WriteString("#")
	b.WriteString(strings.TrimSuffix(frag, "/"))
	for _, s := range kwPath {
		b.WriteByte('/')
		b.WriteString(pointer.Encode(s))
	}
	return b.String()
}

// instancePath renders the instance location in the engine's convention.
func (e *engine) instancePath(inst any, loc []string) string {
	if e.style == pathPointer {
		if len(loc) == 0 {
			return ""
		}
		return pointer.Concat("", loc...)
	}
	b := &strings.Builder{}
	cur := inst
	for _, seg := range loc {
		switch t := cur.(type) {
		case []any:
			b.WriteString("[" + seg + "]")
			if i, err := strconv.Atoi(seg); err == nil && i >= 0 && i < len(t) {
				cur = t[i]
			} else {
				cur = nil
			}
		default:
			if identifier.MatchString(seg) {
				b.WriteString("." + seg)
			} else {
				b.WriteString("['" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(seg) + "']")
			}
			m, _ := t.(map[string]any)
			cur = m[seg]
		}
	}
	return b.String()
}

// relaxed returns a non-empty reason when the error must not be reported:
// values that are unresolved template variables, and type errors raised on
// pseudo-type placeholders whose type is declared.
func relaxed(ve *jsonschema.ValidationError, inst any) string {
	v, ok := valueAt(inst, ve.InstanceLocation)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	if templateVar.MatchString(s) {
		return "template variable"
	}
	t, ok := ve.ErrorKind.(*kind.Type)
	if !ok {
		return ""
	}
	for _, pt := range placeholderTypes[s] {
		if slices.Contains(t.Want, pt) {
			return "typed placeholder"
		}
	}
	return ""
}

func valueAt(inst any, loc []string) (any, bool) {
	cur := inst
	for _, seg := range loc {
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
