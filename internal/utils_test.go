package internal

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chương 1: Khởi đầu", "Chương_1__Khởi_đầu"},
		{"第一章 陨落的天才", "第一章_陨落的天才"},
		{"a/b\\c", "a_b_c"},
		{"  padded  ", "padded"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
