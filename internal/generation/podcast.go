package generation

import (
	"regexp"
	"strings"
)

// The model is told to return spoken dialogue only, but it does not always
// listen. CleanScript strips what slips through: bracketed sound effects,
// parenthetical tone directions, all-caps "LABEL:" line prefixes, known
// speaker labels and markdown bold markers. Cleaning an already-clean
// script is a no-op.
var (
	bracketRe  = regexp.MustCompile(`\[[^\]\n]*\]`)
	parenRe    = regexp.MustCompile(`\([^)\n]*\)`)
	capsLineRe = regexp.MustCompile(`(?m)^[A-Z][A-Z\s]*:\s*`)
	speakerRe  = regexp.MustCompile(`(?i)\b(?:Host|Guest):\s*`)
	boldRe     = regexp.MustCompile(`\*\*`)
	spacesRe   = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanScript applies the deterministic spoken-only cleaning rules.
func CleanScript(script string) string {
	s := bracketRe.ReplaceAllString(script, "")
	s = parenRe.ReplaceAllString(s, "")
	// Speaker labels come off before the all-caps rule: removing "Host: "
	// can leave an all-caps label at the line start, and that label must
	// still be stripped in the same pass.
	s = speakerRe.ReplaceAllString(s, "")
	s = capsLineRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
