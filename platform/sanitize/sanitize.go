// Package sanitize provides text sanitization for backend-supplied strings
// rendered in the terminal. Message bodies and free-text fields arrive as
// whatever the web frontend stored, HTML fragments included.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// controlRegex matches control characters that would corrupt terminal output
	controlRegex = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	// Remove HTML tags
	result := htmlTagRegex.ReplaceAllString(s, "")
	// Decode common HTML entities
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text makes a backend string safe for terminal display: HTML stripped and
// control characters removed. Use for message bodies, notes, and summaries.
func Text(s string) string {
	return controlRegex.ReplaceAllString(StripHTML(s), "")
}
