package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/yaklabco/gdasset/pkg/asset"
)

// OutlineOptions controls symbol tree rendering.
type OutlineOptions struct {
	// Properties includes property and array symbols, not just sections.
	Properties bool

	// Ranges appends each symbol's range to its label.
	Ranges bool
}

// FormatOutline renders roots as a tree titled with the document path.
func (s *Styles) FormatOutline(title string, roots []*asset.Symbol, opts OutlineOptions) string {
	root := tree.Root(s.FilePath.Render(title)).
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(s.Enumerator)

	for _, sym := range roots {
		if node := s.outlineNode(sym, opts); node != nil {
			root.Child(node)
		}
	}

	return root.String() + "\n"
}

func (s *Styles) outlineNode(sym *asset.Symbol, opts OutlineOptions) any {
	if !opts.Properties && sym.Tag == "" {
		return nil
	}

	label := s.SymbolLabel(sym, opts.Ranges)

	var children []any
	for _, child := range sym.Children {
		if node := s.outlineNode(child, opts); node != nil {
			children = append(children, node)
		}
	}
	if len(children) == 0 {
		return label
	}

	return tree.Root(label).
		Child(children...).
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(s.Enumerator)
}

// SymbolLabel formats one symbol as "name detail [kind]", optionally
// followed by its 1-based range.
func (s *Styles) SymbolLabel(sym *asset.Symbol, withRange bool) string {
	var b strings.Builder
	b.WriteString(s.SymbolName.Render(sym.Name))
	if sym.Detail != "" {
		b.WriteByte(' ')
		b.WriteString(s.Detail.Render(sym.Detail))
	}
	b.WriteByte(' ')
	b.WriteString(s.Kind.Render("[" + sym.Kind.String() + "]"))
	if withRange {
		b.WriteByte(' ')
		b.WriteString(s.Location.Render(sym.Range.String()))
	}
	return b.String()
}
