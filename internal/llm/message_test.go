package llm

import "testing"

func TestContent_Text(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    string
	}{
		{"plain", PlainText("xin chào"), "xin chào"},
		{"empty plain", PlainText(""), ""},
		{
			"text blocks joined",
			Blocks(Block{Kind: BlockText, Text: "a"}, Block{Kind: BlockText, Text: "b"}),
			"a\nb",
		},
		{
			"thinking dropped",
			Blocks(
				Block{Kind: BlockThinking, Text: "hmm"},
				Block{Kind: BlockText, Text: `{"translations":[]}`},
			),
			`{"translations":[]}`,
		},
		{"only thinking", Blocks(Block{Kind: BlockThinking, Text: "hmm"}), ""},
		{"no blocks", Blocks(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.content.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResponse_TextNil(t *testing.T) {
	var r *Response
	if r.Text() != "" {
		t.Error("nil response should flatten to empty text")
	}
}

func TestMessageConstructors(t *testing.T) {
	if m := System("s"); m.Role != RoleSystem || m.Text != "s" {
		t.Errorf("System() = %+v", m)
	}
	if m := Human("h"); m.Role != RoleHuman || m.Text != "h" {
		t.Errorf("Human() = %+v", m)
	}
}
