package asset

import "sort"

// StringToken is a quoted string literal. Span runs from the opening quote
// to the closing quote; Value is the decoded text.
type StringToken struct {
	Span  Span
	Value string
}

// CommentToken is a line comment. Text includes the leading ';' or '#'.
type CommentToken struct {
	Span Span
	Text string
}

// Reference is one inline ExtResource(...) or SubResource(...) call.
type Reference struct {
	Keyword Keyword

	// ID is the decoded identifier.
	ID string

	// Span covers the whole call expression.
	Span Span

	// IDSpan covers the argument, quotes included.
	IDSpan Span
}

// tokenAt returns the index of the token whose span encloses pos according
// to inside, or -1. spans must be sorted and non-overlapping.
func tokenAt(n int, spanOf func(int) Span, pos Position, inside func(Span, Position) bool) int {
	idx := sort.Search(n, func(i int) bool {
		return !spanOf(i).End.Before(pos)
	})
	if idx < n && inside(spanOf(idx), pos) {
		return idx
	}
	return -1
}

// StringAt returns the string literal a cursor at pos is inside, if any.
func (s *State) StringAt(pos Position) (StringToken, bool) {
	idx := tokenAt(len(s.Strings), func(i int) Span { return s.Strings[i].Span }, pos, Span.Inside)
	if idx < 0 {
		return StringToken{}, false
	}
	return s.Strings[idx], true
}

// CommentAt returns the comment a cursor at pos is inside, if any.
func (s *State) CommentAt(pos Position) (CommentToken, bool) {
	idx := tokenAt(len(s.Comments), func(i int) Span { return s.Comments[i].Span }, pos, Span.Inside)
	if idx < 0 {
		return CommentToken{}, false
	}
	return s.Comments[idx], true
}

// ReferenceAt returns the reference call whose span contains pos, if any.
func (s *State) ReferenceAt(pos Position) (Reference, bool) {
	idx := tokenAt(len(s.References), func(i int) Span { return s.References[i].Span }, pos, Span.Contains)
	if idx < 0 {
		return Reference{}, false
	}
	return s.References[idx], true
}
