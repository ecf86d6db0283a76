package generation

import "testing"

func TestNormalizeJSON(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"plain array", `[1,2]`, `[1,2]`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without hint", "```\n[1,2]\n```", `[1,2]`},
		{"prose around object", `Sure! Here it is: {"a":1} hope that helps`, `{"a":1}`},
		{"prose around array", `The list: [1,2] done`, `[1,2]`},
		{"nested braces", `prefix {"a":{"b":2}} suffix`, `{"a":{"b":2}}`},
		{"nothing extractable", "just words", "just words"},
		{"unbalanced", "start { never closes", "start { never closes"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeJSON(c.in); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	if got := extractBalanced("a [1, [2]] b [3]", '[', ']'); got != "[1, [2]]" {
		t.Errorf("got %q", got)
	}
	if got := extractBalanced("no brackets", '[', ']'); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
