package asset

import (
	"sort"
	"strings"
)

// Keyword names one of the two resource reference tables.
type Keyword string

const (
	// KeywordExt selects the external resource table.
	KeywordExt Keyword = "ExtResource"

	// KeywordSub selects the local sub-resource table.
	KeywordSub Keyword = "SubResource"
)

// IsValid reports whether k is a known call keyword.
func (k Keyword) IsValid() bool {
	return k == KeywordExt || k == KeywordSub
}

// ResourceDescriptor describes a resource registered by a section header.
type ResourceDescriptor struct {
	// Path is the resource location, e.g. "res://a.png", "uid://...", or
	// "<document>::<id>" for sub-resources.
	Path string

	// Type is the declared type name, possibly empty.
	Type string

	// Symbol is the section that declared the resource.
	Symbol *Symbol
}

// ResourceTable maps decoded ids to descriptors.
type ResourceTable map[string]*ResourceDescriptor

// IDs returns the table's ids sorted for stable output.
func (t ResourceTable) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IDsFor returns the sorted ids whose descriptor has the given path.
func (t ResourceTable) IDsFor(path string) []string {
	var ids []string
	for id, desc := range t {
		if desc.Path == path {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Resolution is the outcome of looking up a reference. A nil Descriptor means
// the id is not registered; that is not an error.
type Resolution struct {
	Keyword    Keyword
	ID         string
	Descriptor *ResourceDescriptor
}

// Resolved reports whether the reference found a descriptor.
func (r Resolution) Resolved() bool {
	return r.Descriptor != nil
}

// Table returns the table named by keyword, or nil for an unknown keyword.
func (s *State) Table(keyword Keyword) ResourceTable {
	switch keyword {
	case KeywordExt:
		return s.ExtResources
	case KeywordSub:
		return s.SubResources
	default:
		return nil
	}
}

// Resolve looks up rawID in the table named by keyword. rawID may be a bare
// integer, a bare id or a quoted (possibly escaped) string.
func (s *State) Resolve(keyword Keyword, rawID string) Resolution {
	return s.Lookup(keyword, CanonicalID(rawID))
}

// Lookup finds an already decoded id, such as Reference.ID, without
// canonicalizing it again.
func (s *State) Lookup(keyword Keyword, id string) Resolution {
	res := Resolution{Keyword: keyword, ID: id}
	if table := s.Table(keyword); table != nil {
		res.Descriptor = table[id]
	}
	return res
}

// ResolveExpr resolves a whole call expression such as `ExtResource("1")`.
// ok is false if expr is not a reference call.
func (s *State) ResolveExpr(expr string) (Resolution, bool) {
	call, ok := ParseCall(strings.TrimSpace(expr))
	if !ok {
		return Resolution{}, false
	}
	return s.Lookup(call.Keyword, call.ID), true
}

// CanonicalID strips surrounding quotes from rawID and decodes escapes.
func CanonicalID(rawID string) string {
	rawID = strings.TrimSpace(rawID)
	if len(rawID) >= 2 && rawID[0] == '"' && rawID[len(rawID)-1] == '"' {
		return Decode(rawID[1 : len(rawID)-1])
	}
	return rawID
}

// Call is a parsed reference call expression.
type Call struct {
	Keyword Keyword
	ID      string

	// Len is the byte length of the whole expression.
	Len int

	// ArgStart and ArgEnd delimit the raw argument within the expression.
	ArgStart int
	ArgEnd   int
}

// ParseCall recognizes `ExtResource(<id>)` or `SubResource(<id>)` at the start
// of text, where <id> is an unsigned integer, a bare identifier or a quoted
// string. Whitespace is allowed inside the parentheses.
func ParseCall(text string) (Call, bool) {
	var call Call
	switch {
	case strings.HasPrefix(text, string(KeywordExt)+"("):
		call.Keyword = KeywordExt
	case strings.HasPrefix(text, string(KeywordSub)+"("):
		call.Keyword = KeywordSub
	default:
		return Call{}, false
	}

	pos := skipSpaces(text, len(call.Keyword)+1)
	call.ArgStart = pos

	switch {
	case pos < len(text) && text[pos] == '"':
		end, closed := scanQuoted(text, pos+1)
		if !closed {
			return Call{}, false
		}
		call.ID = Decode(text[pos+1 : end])
		pos = end + 1
	default:
		start := pos
		for pos < len(text) && isIdentByte(text[pos]) {
			pos++
		}
		if pos == start {
			return Call{}, false
		}
		call.ID = text[start:pos]
	}
	call.ArgEnd = pos

	pos = skipSpaces(text, pos)
	if pos >= len(text) || text[pos] != ')' {
		return Call{}, false
	}
	call.Len = pos + 1
	return call, true
}

// scanQuoted returns the index of the closing quote of a string whose body
// begins at start, honoring backslash escapes.
func scanQuoted(text string, start int) (int, bool) {
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i, true
		}
	}
	return len(text), false
}

func skipSpaces(text string, pos int) int {
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
		pos++
	}
	return pos
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}
