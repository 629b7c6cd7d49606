package prompt

import (
	"strings"
	"testing"

	"codeberg.org/snonux/thienthu/internal/store"
)

func TestTranslate(t *testing.T) {
	plain := Translate(nil)
	if strings.Contains(plain, "Mandatory glossary") {
		t.Error("prompt without glossary should not contain a glossary section")
	}
	if !strings.Contains(plain, `"translations"`) {
		t.Error("prompt should ask for a translations field")
	}

	withGlossary := Translate([]store.GlossaryEntry{
		{Raw: "萧炎", Translated: "Tiêu Viêm", Type: "character"},
		{Raw: "斗气", Translated: "đấu khí", Type: "concept"},
	})
	for _, want := range []string{"萧炎 → Tiêu Viêm (character)", "斗气 → đấu khí (concept)"} {
		if !strings.Contains(withGlossary, want) {
			t.Errorf("prompt missing glossary line %q", want)
		}
	}
}

func TestExtractGlossary(t *testing.T) {
	p := ExtractGlossary()
	for _, typ := range GlossaryTypes {
		if !strings.Contains(p, typ+":") {
			t.Errorf("extraction prompt does not define type %q", typ)
		}
	}
}

func TestGlossaryInput(t *testing.T) {
	got := GlossaryInput("正文")
	if got != "Chapter raw:\n---\n正文\n---" {
		t.Errorf("GlossaryInput() = %q", got)
	}
}

func TestIsGlossaryType(t *testing.T) {
	tests := map[string]bool{
		"character": true,
		"other":     true,
		"Character": false,
		"weapon":    false,
		"":          false,
	}
	for typ, want := range tests {
		if got := IsGlossaryType(typ); got != want {
			t.Errorf("IsGlossaryType(%q) = %v, want %v", typ, got, want)
		}
	}
}
