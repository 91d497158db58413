package webagent

import "strings"

// CompactLines trims every line, drops blank lines and joins the rest
// with single newlines.
func CompactLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// FlattenText collapses all runs of whitespace into single spaces.
func FlattenText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most maxLen runes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	return TruncateWith(s, maxLen, "...")
}

// TruncateWith shortens s to at most maxLen runes, appending suffix when cut.
func TruncateWith(s string, maxLen int, suffix string) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + suffix
}
