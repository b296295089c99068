// Package asset parses text asset documents (scenes, resources and
// project files written as `[tag key=value]` sections followed by
// `key = value` properties) into a symbol tree, literal and comment spans,
// and the two resource reference tables.
//
// Parsing is total: any text, including documents mid-edit, produces a
// State. An unterminated string literal stops the scan and the State keeps
// everything found before it.
package asset

// State is the result of parsing one document version.
type State struct {
	// Path and Version identify the parsed document text.
	Path    string
	Version int

	// RootNode is the name of the first node without a parent attribute.
	RootNode string

	// UID is the document's own uid attribute, if declared.
	UID string

	// Self describes the document itself for scene and resource documents.
	Self *ResourceDescriptor

	ExtResources ResourceTable
	SubResources ResourceTable

	// Strings, Comments and References are in source order.
	Strings    []StringToken
	Comments   []CommentToken
	References []Reference

	// Symbols are the top-level symbols in source order.
	Symbols []*Symbol

	// Truncated is set when an unterminated string literal stopped the scan
	// at TruncatedAt (its opening quote).
	Truncated   bool
	TruncatedAt Position
}

// Parse scans doc to completion and returns its State.
func Parse(doc Document) *State {
	state := &State{
		Path:         doc.Path(),
		Version:      doc.Version(),
		ExtResources: make(ResourceTable),
		SubResources: make(ResourceTable),
	}
	if doc.LineCount() == 0 {
		return state
	}
	newScanner(doc, state).run()
	return state
}

// ParseText parses in-memory content as a document at path.
func ParseText(path string, content string) *State {
	return Parse(NewTextDocument(path, 0, []byte(content)))
}

// IsInString reports whether a cursor at pos is inside a string literal.
func (s *State) IsInString(pos Position) bool {
	_, ok := s.StringAt(pos)
	return ok
}

// IsInComment reports whether a cursor at pos is inside a comment.
func (s *State) IsInComment(pos Position) bool {
	_, ok := s.CommentAt(pos)
	return ok
}

// SymbolAt returns the innermost symbol whose range contains pos.
func (s *State) SymbolAt(pos Position) *Symbol {
	for _, root := range s.Symbols {
		if found := root.Innermost(pos); found != nil {
			return found
		}
	}
	return nil
}

// ReferencesTo returns the references that resolve to a descriptor with the
// given path, in source order.
func (s *State) ReferencesTo(path string) []Reference {
	var refs []Reference
	for _, ref := range s.References {
		if desc := s.Lookup(ref.Keyword, ref.ID).Descriptor; desc != nil && desc.Path == path {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Unresolved returns the references whose id is not registered.
func (s *State) Unresolved() []Reference {
	var refs []Reference
	for _, ref := range s.References {
		if !s.Lookup(ref.Keyword, ref.ID).Resolved() {
			refs = append(refs, ref)
		}
	}
	return refs
}
