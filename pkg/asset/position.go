package asset

import "fmt"

// Position is a zero-based line and byte column in a document.
type Position struct {
	Line   int
	Column int
}

// Pos is shorthand for constructing a Position.
func Pos(line, column int) Position {
	return Position{Line: line, Column: column}
}

// Compare orders positions by line, then column.
// It returns -1, 0 or +1.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// Before reports whether p sorts strictly before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// String renders the position 1-based, as editors display it.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Span is a half-open range [Start, End) over document positions.
// Start never sorts after End.
type Span struct {
	Start Position
	End   Position
}

// NewSpan builds a span, swapping the bounds if they are reversed.
func NewSpan(start, end Position) Span {
	if end.Before(start) {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// IsEmpty returns true if the span covers no text.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// IsSingleLine returns true if start and end are on the same line.
func (s Span) IsSingleLine() bool {
	return s.Start.Line == s.End.Line
}

// Contains reports whether pos lies within the span, bounds included.
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && !s.End.Before(pos)
}

// Inside reports whether a cursor at pos sits after the first character of
// the span and no later than its end. A cursor placed directly before the
// opening delimiter is outside.
func (s Span) Inside(pos Position) bool {
	return s.Start.Before(pos) && !s.End.Before(pos)
}

// Covers reports whether other lies entirely within s.
func (s Span) Covers(other Span) bool {
	return s.Contains(other.Start) && s.Contains(other.End)
}

// Extend grows the span so that it ends no earlier than end.
func (s *Span) Extend(end Position) {
	if s.End.Before(end) {
		s.End = end
	}
}

// String renders the span as "start-end".
func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
