package asset

import "strings"

// Document is the host's view of an open asset document.
// Implementations must return consistent answers for a given Version.
type Document interface {
	// Path is the stable identity of the document (file path or URI).
	Path() string

	// Version changes whenever the document text changes.
	Version() int

	// LineCount returns the number of lines.
	LineCount() int

	// Line returns the text of line i without its line terminator.
	// Out-of-range indexes yield "".
	Line(i int) string

	// TextRange returns the text covered by span, clamped to the document.
	TextRange(span Span) string
}

// TextDocument is an in-memory Document built from a byte buffer.
type TextDocument struct {
	path    string
	version int
	content []byte
	lines   []LineInfo
}

var _ Document = (*TextDocument)(nil)

// NewTextDocument creates a TextDocument. The line index is built eagerly.
func NewTextDocument(path string, version int, content []byte) *TextDocument {
	return &TextDocument{
		path:    path,
		version: version,
		content: content,
		lines:   BuildLines(content),
	}
}

// Path implements Document.
func (d *TextDocument) Path() string { return d.path }

// Version implements Document.
func (d *TextDocument) Version() int { return d.version }

// LineCount implements Document.
func (d *TextDocument) LineCount() int { return len(d.lines) }

// Content returns the raw document bytes.
func (d *TextDocument) Content() []byte { return d.content }

// Line implements Document.
func (d *TextDocument) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	info := d.lines[i]
	return string(d.content[info.StartOffset:info.NewlineStart])
}

// Offset converts a position to a byte offset, clamping the column to the
// line's text.
func (d *TextDocument) Offset(pos Position) int {
	if len(d.lines) == 0 || pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(d.lines) {
		return len(d.content)
	}
	info := d.lines[pos.Line]
	col := max(pos.Column, 0)
	return min(info.StartOffset+col, info.NewlineStart)
}

// TextRange implements Document.
func (d *TextDocument) TextRange(span Span) string {
	start, end := d.Offset(span.Start), d.Offset(span.End)
	if start >= end {
		return ""
	}
	return strings.ReplaceAll(string(d.content[start:end]), "\r\n", "\n")
}
