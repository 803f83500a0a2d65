package schema

import "strings"

const (
	fenceOpen  = "```dbml"
	fenceClose = "```"
)

// ExtractFenced returns the contents of the first ```dbml fenced block in raw,
// trimmed of surrounding whitespace. Generation services usually wrap schema
// text this way. If raw has no complete fenced block it is returned unchanged.
func ExtractFenced(raw string) string {
	start := strings.Index(raw, fenceOpen)
	if start < 0 {
		return raw
	}
	start += len(fenceOpen)
	end := strings.Index(raw[start:], fenceClose)
	if end < 0 {
		return raw
	}
	return strings.TrimSpace(raw[start : start+end])
}
