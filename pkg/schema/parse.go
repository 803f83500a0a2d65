package schema

import (
	"regexp"
	"strings"
)

const tableKeyword = "Table"

var (
	indexesOpenRe = regexp.MustCompile(`(?i)^indexes\s*\{`)
	bracketRe     = regexp.MustCompile(`\[(.*?)\]`)
	parenRe       = regexp.MustCompile(`\((.*?)\)`)

	// The two-character operator is listed first so that "<>" is never read
	// as "<" followed by a stray ">".
	refRe = regexp.MustCompile(`\bRef(?:\s+\w+)?\s*:\s*(\w+)\.(\w+)\s*(<>|[-<>])\s*(\w+)\.(\w+)`)
)

// Parse converts schema text into a [Schema].
//
// Parse never fails. Text it does not recognize is dropped, and empty or
// whitespace-only input yields an empty schema. Table blocks and Ref
// declarations are collected in two independent passes over the text.
func Parse(text string) *Schema {
	s := New()
	if strings.TrimSpace(text) == "" {
		return s
	}
	for _, b := range scanTableBlocks(text) {
		s.putTable(parseTable(b.name, b.body))
	}
	s.Refs = parseRefs(text)
	return s
}

type tableBlock struct {
	name string
	body string
}

// scanTableBlocks finds "Table <name> { ... }" blocks left to right without
// overlap. The body ends at the first closing brace at depth zero, which lets
// a single "indexes { }" sub-block sit inside it. Unterminated blocks are
// dropped. Brace pairs are matched once up front, so the scan stays linear
// however many blocks are left open.
func scanTableBlocks(text string) []tableBlock {
	closing := matchBraces(text)
	var blocks []tableBlock
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], tableKeyword)
		if j < 0 {
			break
		}
		start := i + j
		next := start + len(tableKeyword)
		if start > 0 && isWordByte(text[start-1]) {
			i = next
			continue
		}
		b, end, ok := readTableBlock(text, next, closing)
		if !ok {
			i = next
			continue
		}
		blocks = append(blocks, b)
		i = end
	}
	return blocks
}

// matchBraces maps the offset of every '{' to the offset of the '}' that
// closes it. Unclosed braces are absent, and stray '}' are ignored.
func matchBraces(text string) map[int]int {
	closing := make(map[int]int)
	var open []int
	for k := 0; k < len(text); k++ {
		switch text[k] {
		case '{':
			open = append(open, k)
		case '}':
			if n := len(open); n > 0 {
				closing[open[n-1]] = k
				open = open[:n-1]
			}
		}
	}
	return closing
}

// readTableBlock reads `\s+(\w+)\s*\{body\}` starting at p and returns the
// block and the offset just past its closing brace.
func readTableBlock(text string, p int, closing map[int]int) (tableBlock, int, bool) {
	q := skipSpace(text, p)
	if q == p {
		return tableBlock{}, 0, false
	}
	nameStart := q
	for q < len(text) && isWordByte(text[q]) {
		q++
	}
	if q == nameStart {
		return tableBlock{}, 0, false
	}
	name := text[nameStart:q]

	q = skipSpace(text, q)
	if q >= len(text) || text[q] != '{' {
		return tableBlock{}, 0, false
	}
	k, ok := closing[q]
	if !ok {
		return tableBlock{}, 0, false
	}
	return tableBlock{name: name, body: text[q+1 : k]}, k + 1, true
}

func parseTable(name, body string) Table {
	columns := []Column{}
	byName := make(map[string]int)
	inIndexes := false

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if indexesOpenRe.MatchString(line) {
			// "indexes { (a, b) [pk] }" may open and close on one line.
			rest := line[strings.Index(line, "{")+1:]
			if k := strings.Index(rest, "}"); k >= 0 {
				promoteCompositeKey(rest[:k], columns, byName)
				continue
			}
			promoteCompositeKey(rest, columns, byName)
			inIndexes = true
			continue
		}
		if inIndexes {
			if strings.HasPrefix(line, "}") {
				inIndexes = false
				continue
			}
			promoteCompositeKey(line, columns, byName)
			continue
		}
		if strings.HasPrefix(line, "}") {
			continue
		}

		col, ok := parseColumn(line)
		if !ok {
			continue
		}
		byName[col.Name] = len(columns)
		columns = append(columns, col)
	}
	return Table{Name: name, Columns: columns}
}

// parseColumn reads "name type [attr, attr]". Lines with fewer than two
// tokens are not columns.
func parseColumn(line string) (Column, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Column{}, false
	}
	col := Column{Name: fields[0], Type: fields[1], Attributes: []string{}}
	if m := bracketRe.FindStringSubmatch(line); m != nil {
		col.Attributes = append(col.Attributes, splitAttributes(m[1])...)
	}
	return col, true
}

// promoteCompositeKey handles "(a, b) [pk]" inside an indexes block. Each
// named column that was already parsed gains the primary-key marker once.
func promoteCompositeKey(line string, columns []Column, byName map[string]int) {
	m := bracketRe.FindStringSubmatch(line)
	if m == nil || !hasPrimaryKey(splitAttributes(m[1])) {
		return
	}
	cols := parenRe.FindStringSubmatch(line)
	if cols == nil {
		return
	}
	for _, name := range strings.Split(cols[1], ",") {
		i, ok := byName[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		if !columns[i].IsPrimaryKey() {
			columns[i].Attributes = append(columns[i].Attributes, PrimaryKey)
		}
	}
}

func hasPrimaryKey(attrs []string) bool {
	for _, a := range attrs {
		if strings.EqualFold(a, PrimaryKey) {
			return true
		}
	}
	return false
}

// splitAttributes splits a bracketed attribute list on commas that are not
// inside quotes, trimming each entry and dropping empty ones.
func splitAttributes(s string) []string {
	var (
		out   []string
		quote byte
		start int
	)
	flush := func(end int) {
		if a := strings.TrimSpace(s[start:end]); a != "" {
			out = append(out, a)
		}
		start = end + 1
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == ',':
			flush(i)
		}
	}
	flush(len(s))
	return out
}

func parseRefs(text string) []Ref {
	matches := refRe.FindAllStringSubmatch(text, -1)
	refs := make([]Ref, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, Ref{
			FromTable:  m[1],
			FromColumn: m[2],
			Relation:   Relation(m[3]),
			ToTable:    m[4],
			ToColumn:   m[5],
		})
	}
	return refs
}

func skipSpace(text string, p int) int {
	for p < len(text) {
		switch text[p] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p++
		default:
			return p
		}
	}
	return p
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
