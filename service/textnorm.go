package service

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var filenameUnsafe = regexp.MustCompile(`[\\/:*?"<>|]+`)

// NormalizeText canonicalizes raw mail text: NFKC folding (full-width ASCII
// and digits become half-width), full-width colon to ASCII colon, tabs and
// ideographic spaces to plain spaces, and all line endings to "\n".
// Idempotent; empty input stays empty.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	t := norm.NFKC.String(text)
	t = strings.ReplaceAll(t, "：", ":")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")
	t = strings.ReplaceAll(t, "　", " ")
	return t
}

// SplitLines returns the trimmed non-blank lines of text, capped at maxLines.
// When the cap is exceeded the last kept line carries a continuation marker
// and the remainder is dropped.
func SplitLines(text string, maxLines int) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) <= maxLines {
		return lines
	}
	kept := make([]string, maxLines)
	copy(kept, lines[:maxLines-1])
	kept[maxLines-1] = lines[maxLines-1] + "…"
	return kept
}

// SanitizeFilename replaces characters that are unsafe in filenames with "_".
func SanitizeFilename(name string) string {
	return filenameUnsafe.ReplaceAllString(name, "_")
}
