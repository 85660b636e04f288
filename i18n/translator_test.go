package i18n_test

import (
	"testing"

	"github.com/reoring/schemaforge/i18n"
)

func TestT_SubstitutesParams(t *testing.T) {
	got := i18n.T("required", map[string]string{"missingProperty": "id"})
	if got != "must have required property 'id'" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := i18n.T("uniqueItems", nil); got != "" {
		t.Fatalf("unknown keywords must yield empty message, got %q", got)
	}
}

func TestSetLanguage(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	if got := i18n.T("enum", nil); got != "許可された値のいずれかである必要があります" {
		t.Fatalf("unexpected ja message: %q", got)
	}
	i18n.SetLanguage("fr")
	if got := i18n.T("enum", nil); got != "must be equal to one of the allowed values" {
		t.Fatalf("unsupported languages fall back to en: %q", got)
	}
}

type upper struct{}

func (upper) Message(keyword string, _ map[string]string) string { return "X:" + keyword }

func TestSetTranslator(t *testing.T) {
	i18n.SetTranslator(upper{})
	defer i18n.SetTranslator(nil)
	if got := i18n.T("type", nil); got != "X:type" {
		t.Fatalf("custom translator not used: %q", got)
	}
}
