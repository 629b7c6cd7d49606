package extract

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestExtract_ObjectWithProseAndTrailingComma(t *testing.T) {
	raw := `Here is the result: {"translations": ["a","b",], "summary": "ok"} thanks`

	p := Extract(raw)
	if p.Kind != KindObject {
		t.Fatalf("Kind = %v, want object", p.Kind)
	}
	if got := p.Strings("translations"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("translations = %q, want [a b]", got)
	}
	if got := p.String("summary"); got != "ok" {
		t.Errorf("summary = %q, want ok", got)
	}
}

func TestExtract_NoBrackets(t *testing.T) {
	for _, raw := range []string{"", "just some prose", "（没有JSON）"} {
		p := Extract(raw)
		if !p.Empty() {
			t.Errorf("Extract(%q) = %+v, want empty payload", raw, p)
		}
	}
}

func TestExtract_Array(t *testing.T) {
	raw := "```json\n[\"一\", \"二\",\n]\n```"
	p := Extract(raw)
	if p.Kind != KindArray {
		t.Fatalf("Kind = %v, want array", p.Kind)
	}
	if got := p.Strings(""); !reflect.DeepEqual(got, []string{"一", "二"}) {
		t.Errorf("items = %q", got)
	}
}

func TestExtract_ArrayOfObjects(t *testing.T) {
	raw := `Kết quả:
[
  {"raw": "萧炎", "translated": "Tiêu Viêm", "type": "character"},
  {"raw": "乌坦城", "translated": "Ô Thản Thành", "type": "location"},
]`
	p := Extract(raw)
	if p.Kind != KindArray {
		t.Fatalf("Kind = %v, want array", p.Kind)
	}
	if len(p.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(p.Items))
	}
	first, ok := p.Items[0].(map[string]any)
	if !ok || first["raw"] != "萧炎" {
		t.Errorf("first item = %#v", p.Items[0])
	}
}

func TestExtract_ObjectPreferredOverEarlierUnrelatedArray(t *testing.T) {
	raw := `See note [1]. {"translations": ["x"], "order": 12}`
	p := Extract(raw)
	if p.Kind != KindObject {
		t.Fatalf("Kind = %v, want object", p.Kind)
	}
	if n, ok := p.Int("order"); !ok || n != 12 {
		t.Errorf("order = %d, %v", n, ok)
	}
}

func TestExtract_ObjectFallsBackToArray(t *testing.T) {
	raw := `{broken: object} and then ["a", "b"]`
	p := Extract(raw)
	if p.Kind != KindArray {
		t.Fatalf("Kind = %v, want array", p.Kind)
	}
	if got := p.Strings(""); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("items = %q", got)
	}
}

func TestExtract_DelimitersInsideStrings(t *testing.T) {
	raw := `{"translations": ["he said \"]\" and left}", "[ok], done"], "title": "a{b"}`
	p := Extract(raw)
	want := []string{`he said "]" and left}`, "[ok], done"}
	if got := p.Strings("translations"); !reflect.DeepEqual(got, want) {
		t.Errorf("translations = %q, want %q", got, want)
	}
	if p.String("title") != "a{b" {
		t.Errorf("title = %q", p.String("title"))
	}
}

func TestExtract_Unbalanced(t *testing.T) {
	tests := []string{
		`{"translations": ["a", "b"`,
		`[1, 2, 3`,
		`prefix ]]] {{{`,
	}
	for _, raw := range tests {
		if p := Extract(raw); !p.Empty() {
			t.Errorf("Extract(%q) = %+v, want empty", raw, p)
		}
	}
}

func TestExtract_ArrayRequiredForArrayForm(t *testing.T) {
	p := Extract(`{"a": 1`)
	if !p.Empty() {
		t.Errorf("expected empty payload, got %+v", p)
	}
}

func TestExtract_NonStringItemsKeepPositions(t *testing.T) {
	p := Extract(`{"translations": ["a", 3, null, "d"]}`)
	want := []string{"a", "", "", "d"}
	if got := p.Strings("translations"); !reflect.DeepEqual(got, want) {
		t.Errorf("translations = %q, want %q", got, want)
	}
}

func TestExtractor_LogsPreviewOnFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	e := New(zap.New(core))

	raw := "[not json at all" + strings.Repeat("x", 2000) + "]"
	if p := e.Extract(raw); !p.Empty() {
		t.Fatalf("expected empty payload, got %+v", p)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	preview := entries[0].ContextMap()["preview"].(string)
	if n := len([]rune(preview)); n > PreviewLength+3 {
		t.Errorf("preview has %d runes, want at most %d", n, PreviewLength+3)
	}
}

func TestPayloadInt(t *testing.T) {
	p := Extract(`{"a": 7, "b": "42", "c": "x", "d": true}`)
	tests := []struct {
		field string
		want  int
		ok    bool
	}{
		{"a", 7, true},
		{"b", 42, true},
		{"c", 0, false},
		{"d", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := p.Int(tt.field)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Int(%q) = %d, %v; want %d, %v", tt.field, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPreview(t *testing.T) {
	if Preview("  ") != "<empty>" {
		t.Errorf("Preview of blank = %q", Preview("  "))
	}
	if got := Preview("a\nb\tc"); got != "a b c" {
		t.Errorf("Preview flattened = %q", got)
	}
}
