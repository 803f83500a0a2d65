package diagram

import (
	"bytes"
	"encoding/xml"
)

const charWidth = 0.6

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Truncate shortens s to fit width at the given font size, marking the cut
// with "..". Widths are estimated from an average glyph width.
func Truncate(s string, width, fontSize float64) string {
	r := []rune(s)
	maxChars := max(int(width/(fontSize*charWidth)), 3)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}
