package models

import "testing"

func TestPostLabel(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", ""},
		{"short", "short"},
		{"exactly15chars!", "exactly15chars!"},
		{"this text is longer than fifteen characters", "this text is lo"},
		{"пятнадцать символов и ещё немного", "пятнадцать симв"}, // runes, not bytes
	}
	for _, c := range cases {
		if got := (Post{Text: c.text}).Label(); got != c.want {
			t.Errorf("Label(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
