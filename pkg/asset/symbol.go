package asset

import "fmt"

// SymbolKind classifies a Symbol for outline rendering.
type SymbolKind uint8

// Symbol kinds, mirroring the editor outline categories they map onto.
const (
	KindNamespace SymbolKind = iota // section without inline attributes
	KindFile                        // gd_scene / gd_resource header
	KindProperty
	KindArray // synthetic key[] group
	KindObject
	KindEvent
	KindBoolean
	KindVariable
)

var symbolKindNames = [...]string{
	KindNamespace: "namespace",
	KindFile:      "file",
	KindProperty:  "property",
	KindArray:     "array",
	KindObject:    "object",
	KindEvent:     "event",
	KindBoolean:   "boolean",
	KindVariable:  "variable",
}

// String returns the lowercase kind name.
func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// MarshalText renders the kind by name.
func (k SymbolKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name produced by MarshalText.
func (k *SymbolKind) UnmarshalText(text []byte) error {
	for i, name := range symbolKindNames {
		if name == string(text) {
			*k = SymbolKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown symbol kind %q", text)
}

// Symbol is a named, range-addressed construct in an asset document.
// Children keep source order.
type Symbol struct {
	Name   string
	Detail string
	Kind   SymbolKind

	// Range covers the whole construct, including multi-line values.
	Range Span

	// Selection covers the header or key token only.
	Selection Span

	Children []*Symbol

	// Tag is the section tag for section symbols, empty otherwise.
	Tag string
}

func newSymbol(name string, kind SymbolKind, span Span) *Symbol {
	return &Symbol{Name: name, Kind: kind, Range: span, Selection: span}
}

// AddChild appends child in source order.
func (s *Symbol) AddChild(child *Symbol) {
	s.Children = append(s.Children, child)
}

// HasChildren returns true if this symbol has any children.
func (s *Symbol) HasChildren() bool {
	return len(s.Children) > 0
}

// Child returns the first direct child with the given name.
func (s *Symbol) Child(name string) *Symbol {
	for _, child := range s.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Walk visits s and its descendants depth-first in source order.
// Returning false from fn skips the node's children.
func (s *Symbol) Walk(fn func(*Symbol) bool) {
	if !fn(s) {
		return
	}
	for _, child := range s.Children {
		child.Walk(fn)
	}
}

// Innermost returns the deepest descendant of s (or s itself) whose range
// contains pos, or nil if s does not contain pos.
func (s *Symbol) Innermost(pos Position) *Symbol {
	if !s.Range.Contains(pos) {
		return nil
	}
	for _, child := range s.Children {
		if found := child.Innermost(pos); found != nil {
			return found
		}
	}
	return s
}

// CountSymbols returns the number of symbols in the forest.
func CountSymbols(roots []*Symbol) int {
	total := 0
	for _, root := range roots {
		root.Walk(func(*Symbol) bool {
			total++
			return true
		})
	}
	return total
}
