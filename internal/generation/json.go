package generation

import "strings"

// NormalizeJSON prepares model output for json.Unmarshal: code fences are
// stripped and, when the remainder does not start with a JSON value, the
// first balanced object or array is extracted.
func NormalizeJSON(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		// Drop a possible language hint, e.g. "json".
		if idx := strings.IndexByte(t, '\n'); idx != -1 {
			t = t[idx+1:]
		}
		if j := strings.LastIndex(t, "```"); j != -1 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
		return t
	}
	if obj := extractBalanced(t, '{', '}'); obj != "" {
		return obj
	}
	if arr := extractBalanced(t, '[', ']'); arr != "" {
		return arr
	}
	return t
}

// extractBalanced returns the first balanced open..close span in s, or "".
// Depth counting only — good enough for model output, not a JSON parser.
func extractBalanced(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
