package generation

import (
	"strings"
	"testing"
)

func TestCleanScript(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{
			name: "sound effects",
			in:   "[Intro music fades]\nWelcome to the show.",
			want: "Welcome to the show.",
		},
		{
			name: "tone directions",
			in:   "Welcome (said warmly) to the show.",
			want: "Welcome to the show.",
		},
		{
			name: "speaker labels",
			in:   "Host: Welcome.\nGuest: Thanks for having me.",
			want: "Welcome.\nThanks for having me.",
		},
		{
			name: "caps labels",
			in:   "NARRATOR: Once upon a time.",
			want: "Once upon a time.",
		},
		{
			name: "speaker label hiding a caps label",
			in:   "Host: HELLO FRIENDS: welcome to the show.",
			want: "welcome to the show.",
		},
		{
			name: "bold markers",
			in:   "This is **very** important.",
			want: "This is very important.",
		},
		{
			name: "already clean",
			in:   "Just spoken words.\nNothing else.",
			want: "Just spoken words.\nNothing else.",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CleanScript(c.in); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestCleanScript_Idempotent(t *testing.T) {
	inputs := []string{
		"[Music]\nHOST: Welcome **everyone** (cheerfully) to the show.\nGuest: Glad to be here.",
		// A speaker label in front of a caps label: both must come off in
		// one pass, not one per pass.
		"Host: HELLO FRIENDS: welcome to the show.",
	}
	for _, in := range inputs {
		once := CleanScript(in)
		twice := CleanScript(once)
		if once != twice {
			t.Errorf("cleaning is not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestCleanScript_CollapsesLeftoverSpaces(t *testing.T) {
	got := CleanScript("Welcome (warmly)  to the show.")
	if strings.Contains(got, "  ") {
		t.Errorf("double spaces remain: %q", got)
	}
}
