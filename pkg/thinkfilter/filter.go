// Package thinkfilter removes reasoning traces from completion text and
// decides, from the request conversation, when that should happen.
package thinkfilter

import "strings"

// Markers that open and close a think block. A marker only counts at the
// very start of a line.
const (
	OpenMarker  = "<think>"
	CloseMarker = "</think>"
)

// Strip drops every line from one starting with OpenMarker through one starting
// with CloseMarker, marker lines included, and trims the result. An unclosed
// block runs to the end of the text.
func Strip(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]

	thinking := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, OpenMarker):
			thinking = true
		case strings.HasPrefix(line, CloseMarker):
			thinking = false
		case !thinking:
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
