package asset

import "strconv"

// AttrKind classifies a header attribute value.
type AttrKind uint8

const (
	// AttrRaw is any value shape without dedicated handling (arrays, floats...).
	AttrRaw AttrKind = iota
	AttrNumber
	AttrString
	AttrReference
)

// Attribute is one key=value pair of a section header.
type Attribute struct {
	Key  string
	Kind AttrKind

	// Raw is the value as written.
	Raw string

	// Value is the decoded string for AttrString, the canonical id for
	// AttrReference and Raw otherwise.
	Value string

	// Call is set for AttrReference values.
	Call *Call

	// Start and End are byte columns of the value within the line.
	Start int
	End   int
}

// Int returns the value as an integer for AttrNumber attributes.
func (a Attribute) Int() (int, bool) {
	if a.Kind != AttrNumber {
		return 0, false
	}
	n, err := strconv.Atoi(a.Raw)
	return n, err == nil
}

// header is a parsed `[tag key=value ...]` line.
type header struct {
	tag   string
	attrs []Attribute

	open  int // column of '['
	close int // column just past ']'

	commentStart int // -1 without trailing comment
}

func (h *header) attr(key string) (Attribute, bool) {
	for _, a := range h.attrs {
		if a.Key == key {
			return a, true
		}
	}
	return Attribute{}, false
}

// text returns the decoded value of key, or "".
func (h *header) text(key string) string {
	a, _ := h.attr(key)
	return a.Value
}

// parseHeader recognizes a section header line. Any deviation from the
// grammar reports ok=false so the line is scanned as ordinary content.
func parseHeader(line string) (header, bool) {
	pos := skipSpaces(line, 0)
	if pos >= len(line) || line[pos] != '[' {
		return header{}, false
	}
	h := header{open: pos, commentStart: -1}

	pos = skipSpaces(line, pos+1)
	start := pos
	for pos < len(line) && isIdentByte(line[pos]) {
		pos++
	}
	if pos == start || isDigit(line[start]) {
		return header{}, false
	}
	h.tag = line[start:pos]

	for {
		afterSpace := skipSpaces(line, pos)
		if afterSpace >= len(line) {
			return header{}, false
		}
		if line[afterSpace] == ']' {
			pos = afterSpace + 1
			break
		}
		if afterSpace == pos {
			return header{}, false
		}
		attr, next, ok := parseAttribute(line, afterSpace)
		if !ok {
			return header{}, false
		}
		h.attrs = append(h.attrs, attr)
		pos = next
	}
	h.close = pos

	pos = skipSpaces(line, pos)
	if pos < len(line) {
		if line[pos] != ';' && line[pos] != '#' {
			return header{}, false
		}
		h.commentStart = pos
	}

	return h, true
}

func parseAttribute(line string, pos int) (Attribute, int, bool) {
	start := pos
	for pos < len(line) && isKeyByte(line[pos]) {
		pos++
	}
	if pos == start {
		return Attribute{}, 0, false
	}
	attr := Attribute{Key: line[start:pos]}

	pos = skipSpaces(line, pos)
	if pos >= len(line) || line[pos] != '=' {
		return Attribute{}, 0, false
	}
	pos = skipSpaces(line, pos+1)
	if pos >= len(line) {
		return Attribute{}, 0, false
	}
	attr.Start = pos

	switch ch := line[pos]; {
	case ch == '"':
		end, closed := scanQuoted(line, pos+1)
		if !closed {
			return Attribute{}, 0, false
		}
		attr.Kind = AttrString
		attr.Value = Decode(line[pos+1 : end])
		pos = end + 1
	case ch == 'E' || ch == 'S':
		if call, ok := ParseCall(line[pos:]); ok {
			attr.Kind = AttrReference
			attr.Value = call.ID
			attr.Call = &call
			pos += call.Len
			break
		}
		pos = scanRawValue(line, pos)
	case isDigit(ch):
		end := pos
		for end < len(line) && isDigit(line[end]) {
			end++
		}
		if end == len(line) || line[end] == ' ' || line[end] == '\t' || line[end] == ']' {
			attr.Kind = AttrNumber
			pos = end
			break
		}
		pos = scanRawValue(line, pos)
	default:
		pos = scanRawValue(line, pos)
	}

	if pos == attr.Start {
		return Attribute{}, 0, false
	}
	attr.End = pos
	attr.Raw = line[attr.Start:pos]
	if attr.Kind == AttrRaw || attr.Kind == AttrNumber {
		attr.Value = attr.Raw
	}
	return attr, pos, true
}

// scanRawValue consumes a value without dedicated syntax: balanced
// brackets, parentheses and braces with quoted strings inside, or a bare run
// up to whitespace or the closing ']'.
func scanRawValue(line string, pos int) int {
	depth := 0
	for pos < len(line) {
		switch ch := line[pos]; ch {
		case '"':
			end, closed := scanQuoted(line, pos+1)
			if !closed {
				return len(line)
			}
			pos = end + 1
			continue
		case '[', '(', '{':
			depth++
		case ')', '}':
			depth--
		case ']':
			if depth == 0 {
				return pos
			}
			depth--
		case ' ', '\t':
			if depth == 0 {
				return pos
			}
		}
		pos++
	}
	return pos
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isKeyByte(ch byte) bool {
	return isIdentByte(ch) || ch == '/' || ch == '.' || ch == ':' || ch == '-'
}
