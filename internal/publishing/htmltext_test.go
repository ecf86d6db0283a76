package publishing

import (
	"strings"
	"testing"
)

func TestHTMLToText(t *testing.T) {
	in := `<html><head><style>p{color:red}</style><script>alert(1)</script></head>
<body><h1>Title</h1><p>First paragraph.</p><ul><li>One</li><li>Two</li></ul></body></html>`
	got := htmlToText(in)

	for _, want := range []string{"Title", "First paragraph.", "One", "Two"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	for _, banned := range []string{"alert", "color:red", "<"} {
		if strings.Contains(got, banned) {
			t.Errorf("markup leaked: %q in %q", banned, got)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := excerpt("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	got := excerpt(strings.Repeat("a", 50), 10)
	if len([]rune(got)) != 11 || !strings.HasSuffix(got, "…") {
		t.Errorf("got %q", got)
	}
	// Rune-safe: no broken UTF-8 when cutting multibyte text.
	got = excerpt(strings.Repeat("ü", 50), 10)
	if !strings.HasPrefix(got, strings.Repeat("ü", 10)) {
		t.Errorf("got %q", got)
	}
}
