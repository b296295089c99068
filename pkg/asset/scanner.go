package asset

import (
	"strings"
	"unicode/utf8"
)

// maxDetailLen caps property details taken from value text.
const maxDetailLen = 80

// stringScan is the state of a quoted-string scan.
type stringScan uint8

const (
	stringScanning stringScan = iota
	stringClosed
	stringUnterminated
)

// scanner holds the cursor and open constructs for one parse. Each parse
// owns its scanner, so distinct documents can be parsed concurrently.
type scanner struct {
	doc   Document
	state *State

	pos  Position
	line string

	section  *Symbol
	property *Symbol
	group    *Symbol

	// groups holds the array groups of the open section by base key.
	groups map[string]*Symbol

	// nodeName is the raw name of the open node section.
	nodeName string

	stopped bool
}

func newScanner(doc Document, state *State) *scanner {
	return &scanner{
		doc:    doc,
		state:  state,
		line:   doc.Line(0),
		groups: make(map[string]*Symbol),
	}
}

// run scans the whole document. It never fails: an unterminated string
// stops the scan and leaves everything built so far in place.
func (s *scanner) run() {
	lineCount := s.doc.LineCount()
	for !s.stopped && s.pos.Line < lineCount {
		if s.pos.Column == 0 && s.scanLineStart() {
			continue
		}
		if s.pos.Column >= len(s.line) {
			s.nextLine()
			continue
		}
		s.scanValue()
	}
}

func (s *scanner) nextLine() {
	s.pos = Position{Line: s.pos.Line + 1}
	s.line = s.doc.Line(s.pos.Line)
}

// touch records consumed content ending at end, growing the open section,
// property and array group to cover it.
func (s *scanner) touch(end Position) {
	if s.section != nil {
		s.section.Range.Extend(end)
	}
	if s.property != nil {
		s.property.Range.Extend(end)
	}
	if s.group != nil {
		s.group.Range.Extend(end)
	}
}

// scanLineStart tries the constructs that must begin a line. It returns
// true when the whole line was consumed. A property key consumes only up to
// its '=' and returns false so the value is scanned on the same line.
func (s *scanner) scanLineStart() bool {
	if h, ok := parseHeader(s.line); ok {
		s.openSection(&h)
		s.nextLine()
		return true
	}
	if s.scanPropertyKey() {
		return false
	}

	trimmed := strings.TrimLeft(s.line, " \t")
	if trimmed == "" {
		s.nextLine()
		return true
	}
	if trimmed[0] == ';' || trimmed[0] == '#' {
		start := len(s.line) - len(trimmed)
		s.state.Comments = append(s.state.Comments, CommentToken{
			Span: Span{Start: Pos(s.pos.Line, start), End: Pos(s.pos.Line, len(s.line))},
			Text: strings.TrimRight(trimmed, " \t\r"),
		})
		s.nextLine()
		return true
	}
	return false
}

func (s *scanner) openSection(h *header) {
	lineNo := s.pos.Line
	sym := &Symbol{
		Range:     Span{Start: Pos(lineNo, 0), End: Pos(lineNo, len(s.line))},
		Selection: Span{Start: Pos(lineNo, h.open), End: Pos(lineNo, h.close)},
		Tag:       h.tag,
	}

	s.property, s.group, s.nodeName = nil, nil, ""
	clear(s.groups)
	s.section = sym

	for _, attr := range h.attrs {
		switch attr.Kind {
		case AttrString:
			s.state.Strings = append(s.state.Strings, StringToken{
				Span:  Span{Start: Pos(lineNo, attr.Start), End: Pos(lineNo, attr.End-1)},
				Value: attr.Value,
			})
		case AttrReference:
			s.state.References = append(s.state.References, Reference{
				Keyword: attr.Call.Keyword,
				ID:      attr.Call.ID,
				Span:    Span{Start: Pos(lineNo, attr.Start), End: Pos(lineNo, attr.End)},
				IDSpan: Span{
					Start: Pos(lineNo, attr.Start+attr.Call.ArgStart),
					End:   Pos(lineNo, attr.Start+attr.Call.ArgEnd),
				},
			})
		}
	}
	if h.commentStart >= 0 {
		s.state.Comments = append(s.state.Comments, CommentToken{
			Span: Span{Start: Pos(lineNo, h.commentStart), End: Pos(lineNo, len(s.line))},
			Text: strings.TrimRight(s.line[h.commentStart:], " \t\r"),
		})
	}

	s.describeSection(sym, h)
	s.state.Symbols = append(s.state.Symbols, sym)
}

// scanPropertyKey matches `key[index] =` at the start of the line and opens
// a property symbol, leaving the cursor just past the '='.
func (s *scanner) scanPropertyKey() bool {
	line := s.line
	start := skipSpaces(line, 0)
	pos := start
	for pos < len(line) && isKeyByte(line[pos]) {
		pos++
	}
	if pos == start {
		return false
	}
	base := line[start:pos]

	indexed := false
	if pos < len(line) && line[pos] == '[' {
		digits := pos + 1
		for digits < len(line) && isDigit(line[digits]) {
			digits++
		}
		if digits == pos+1 || digits >= len(line) || line[digits] != ']' {
			return false
		}
		pos = digits + 1
		indexed = true
	}
	keyEnd := pos

	pos = skipSpaces(line, pos)
	if pos >= len(line) || line[pos] != '=' {
		return false
	}

	lineNo := s.pos.Line
	keySpan := Span{Start: Pos(lineNo, start), End: Pos(lineNo, keyEnd)}
	key := line[start:keyEnd]
	sym := &Symbol{Name: key, Range: keySpan, Selection: keySpan}
	s.describeProperty(sym, key, truncateDetail(line[pos+1:]))

	s.property = sym
	s.group = nil
	if indexed {
		s.group = s.arrayGroup(base, keySpan)
		s.group.AddChild(sym)
	} else {
		s.addToContainer(sym)
	}

	s.pos.Column = pos + 1
	s.touch(s.pos)
	return true
}

// arrayGroup returns the key[] group of the open section, creating it on
// first use.
func (s *scanner) arrayGroup(base string, keySpan Span) *Symbol {
	if group, ok := s.groups[base]; ok {
		return group
	}
	group := newSymbol(base+"[]", KindArray, keySpan)
	s.groups[base] = group
	s.addToContainer(group)
	return group
}

func (s *scanner) addToContainer(sym *Symbol) {
	if s.section != nil {
		s.section.AddChild(sym)
		return
	}
	s.state.Symbols = append(s.state.Symbols, sym)
}

// scanValue consumes one fragment of value text at the cursor.
func (s *scanner) scanValue() {
	line, col := s.line, s.pos.Column

	switch ch := line[col]; {
	case ch == '"':
		s.scanString()
	case ch == ' ' || ch == '\t' || ch == '\r':
		end := col
		for end < len(line) && (line[end] == ' ' || line[end] == '\t' || line[end] == '\r') {
			end++
		}
		s.pos.Column = end
	default:
		if s.scanReference() {
			return
		}
		end := col + 1
		for end < len(line) && !isBareStop(line, end) {
			end++
		}
		s.pos.Column = end
		s.touch(s.pos)
	}
}

// isBareStop reports whether a bare token run must end before line[i].
func isBareStop(line string, i int) bool {
	switch line[i] {
	case '"', ' ', '\t', '\r':
		return true
	case 'E', 'S':
		if isIdentByte(line[i-1]) {
			return false
		}
		_, ok := ParseCall(line[i:])
		return ok
	default:
		return false
	}
}

func (s *scanner) scanReference() bool {
	col := s.pos.Column
	if col > 0 && isIdentByte(s.line[col-1]) {
		return false
	}
	call, ok := ParseCall(s.line[col:])
	if !ok {
		return false
	}
	lineNo := s.pos.Line
	s.state.References = append(s.state.References, Reference{
		Keyword: call.Keyword,
		ID:      call.ID,
		Span:    Span{Start: Pos(lineNo, col), End: Pos(lineNo, col+call.Len)},
		IDSpan:  Span{Start: Pos(lineNo, col+call.ArgStart), End: Pos(lineNo, col+call.ArgEnd)},
	})
	s.pos.Column = col + call.Len
	s.touch(s.pos)
	return true
}

// scanString consumes a quoted string starting at the cursor. Line breaks
// inside the quotes are part of the value. Reaching the end of the document
// first drops the partial literal and stops the scan.
func (s *scanner) scanString() {
	start := s.pos
	lineNo, col, text := start.Line, start.Column+1, s.line

	var body strings.Builder
	state := stringScanning
	var closeCol int

	for state == stringScanning {
		end, closed := scanQuoted(text, col)
		if closed {
			body.WriteString(text[col:end])
			closeCol = end
			state = stringClosed
			break
		}
		body.WriteString(text[col:])
		lineNo++
		if lineNo >= s.doc.LineCount() {
			state = stringUnterminated
			break
		}
		body.WriteByte('\n')
		text, col = s.doc.Line(lineNo), 0
	}

	if state == stringUnterminated {
		s.state.Truncated = true
		s.state.TruncatedAt = start
		s.stopped = true
		return
	}

	closePos := Pos(lineNo, closeCol)
	s.state.Strings = append(s.state.Strings, StringToken{
		Span:  Span{Start: start, End: closePos},
		Value: Decode(body.String()),
	})

	s.pos = Pos(lineNo, closeCol+1)
	s.line = text
	s.touch(s.pos)
}

func truncateDetail(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= maxDetailLen {
		return value
	}
	cut := maxDetailLen
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + "…"
}
