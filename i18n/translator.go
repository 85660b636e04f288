package i18n

import "strings"

// Translator retrieves localized messages for validation keywords.
// data provides optional metadata to embed in the message (for example,
// "missingProperty" or "pattern"), referenced as {name} in templates.
type Translator interface {
	Message(keyword string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalog = map[string]map[string]string{
	"en": {
		"type":                 "must be {type}",
		"required":             "must have required property '{missingProperty}'",
		"enum":                 "must be equal to one of the allowed values",
		"const":                "must be equal to constant",
		"pattern":              `must match pattern "{pattern}"`,
		"format":               `must match format "{format}"`,
		"additionalProperties": "must NOT have additional properties",
		"oneOf":                "must match exactly one schema in oneOf",
		"anyOf":                "must match a schema in anyOf",
		"not":                  "must NOT be valid",
		"false schema":         "boolean schema is false",
		"minLength":            "must NOT have fewer than {limit} characters",
		"maxLength":            "must NOT have more than {limit} characters",
		"minItems":             "must NOT have fewer than {limit} items",
		"maxItems":             "must NOT have more than {limit} items",
	},
	"ja": {
		"type":                 "型が不正です ({type})",
		"required":             "必須プロパティ '{missingProperty}' が不足しています",
		"enum":                 "許可された値のいずれかである必要があります",
		"const":                "定数と一致する必要があります",
		"pattern":              "パターン \"{pattern}\" に一致しません",
		"format":               "フォーマット \"{format}\" に一致しません",
		"additionalProperties": "未知のキーです",
		"oneOf":                "oneOf のスキーマにちょうど一つ一致する必要があります",
		"anyOf":                "anyOf のスキーマのいずれかに一致する必要があります",
		"not":                  "not のスキーマに一致してはいけません",
		"false schema":         "false スキーマです",
		"minLength":            "{limit} 文字以上である必要があります",
		"maxLength":            "{limit} 文字以下である必要があります",
		"minItems":             "{limit} 要素以上である必要があります",
		"maxItems":             "{limit} 要素以下である必要があります",
	},
}

func (t dictTranslator) Message(keyword string, data map[string]string) string {
	tmpl, ok := catalog[t.lang][keyword]
	if !ok {
		return ""
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the keyword using the current Translator. It
// returns "" when the keyword has no entry, letting callers fall back to the
// engine's own wording.
func T(keyword string, data map[string]string) string {
	return currentTranslator.Message(keyword, data)
}
