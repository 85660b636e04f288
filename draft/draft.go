// Package draft selects the JSON Schema dialect that applies to a schema and
// the validation engine that serves it.
package draft

import "strings"

// Draft identifies a JSON Schema dialect.
type Draft string

const (
	Unspecified Draft = "unspecified"
	Draft04     Draft = "draft-04"
	Draft06     Draft = "draft-06"
	Draft07     Draft = "draft-07"
	Draft2019   Draft = "2019-09"
	Draft2020   Draft = "2020-12"
)

// Canonical meta-schema URIs.
const (
	URIDraft04   = "http://json-schema.org/draft-04/schema#"
	URIDraft06   = "http://json-schema.org/draft-06/schema#"
	URIDraft07   = "http://json-schema.org/draft-07/schema#"
	URIDraft2019 = "https://json-schema.org/draft/2019-09/schema"
	URIDraft2020 = "https://json-schema.org/draft/2020-12/schema"
)

// URI returns the canonical meta-schema URI, "" for Unspecified.
func (d Draft) URI() string {
	switch d {
	case Draft04:
		return URIDraft04
	case Draft06:
		return URIDraft06
	case Draft07:
		return URIDraft07
	case Draft2019:
		return URIDraft2019
	case Draft2020:
		return URIDraft2020
	}
	return ""
}

// Local reads the schema's own $schema declaration. It returns "" when the
// field is absent; the dialect is never inferred from content.
func Local(schema any) string {
	m, ok := schema.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m["$schema"].(string)
	return s
}

// ToUse returns local when present, else fallback. Both empty means "use the
// dispatcher's default engine".
func ToUse(local, fallback string) string {
	if local != "" {
		return local
	}
	return fallback
}

// Parse maps a dialect URI or short identifier ("draft-07", "2020-12") to a
// Draft. Unrecognized input yields Unspecified.
func Parse(uri string) Draft {
	s := strings.ToLower(strings.TrimSpace(uri))
	switch {
	case s == "":
		return Unspecified
	case strings.Contains(s, "draft-04"), s == "4", s == "draft4":
		return Draft04
	case strings.Contains(s, "draft-06"), s == "6", s == "draft6":
		return Draft06
	case strings.Contains(s, "draft-07"), s == "7", s == "draft7":
		return Draft07
	case strings.Contains(s, "2019-09"):
		return Draft2019
	case strings.Contains(s, "2020-12"):
		return Draft2020
	}
	return Unspecified
}

// Known reports whether uri names one of the supported drafts.
func Known(uri string) bool { return Parse(uri) != Unspecified }

// Engine is the validation engine variant serving a draft.
type Engine int

const (
	// EngineStandard serves drafts 06 through 2020-12 and unspecified schemas.
	EngineStandard Engine = iota
	// EngineLegacy serves draft-04, whose exclusiveMinimum/exclusiveMaximum
	// and id semantics differ.
	EngineLegacy
)

func (e Engine) String() string {
	if e == EngineLegacy {
		return "legacy"
	}
	return "standard"
}

// EngineFor maps a dialect to its engine variant.
func EngineFor(uri string) Engine {
	if Parse(uri) == Draft04 {
		return EngineLegacy
	}
	return EngineStandard
}
