package runner

import "github.com/yaklabco/gdasset/pkg/asset"

// FileStats summarizes one parsed document.
type FileStats struct {
	Sections     int  `json:"sections"`
	Symbols      int  `json:"symbols"`
	Strings      int  `json:"strings"`
	Comments     int  `json:"comments"`
	ExtResources int  `json:"extResources"`
	SubResources int  `json:"subResources"`
	References   int  `json:"references"`
	Unresolved   int  `json:"unresolved"`
	Truncated    bool `json:"truncated"`
}

// Summarize computes FileStats for a parsed document.
func Summarize(state *asset.State) FileStats {
	if state == nil {
		return FileStats{}
	}
	stats := FileStats{
		Symbols:      asset.CountSymbols(state.Symbols),
		Strings:      len(state.Strings),
		Comments:     len(state.Comments),
		ExtResources: len(state.ExtResources),
		SubResources: len(state.SubResources),
		References:   len(state.References),
		Unresolved:   len(state.Unresolved()),
		Truncated:    state.Truncated,
	}
	for _, sym := range state.Symbols {
		if sym.Tag != "" {
			stats.Sections++
		}
	}
	return stats
}

// FileOutcome is the result of loading one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// DocPath is the document identity, res:// when under the project root.
	DocPath string

	// State is the parsed document. Nil if Error is set.
	State *asset.State

	Stats FileStats

	// Error is set if the file could not be read.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesParsed     int
	FilesErrored    int
	FilesTruncated  int

	Sections   int
	Symbols    int
	References int
	Unresolved int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasUnresolved reports whether any document references an undeclared id.
func (r *Result) HasUnresolved() bool {
	return r != nil && r.Stats.Unresolved > 0
}

// HasErrors reports whether any file failed to load.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// Usage is a reference found in a specific document.
type Usage struct {
	Path      string
	Reference asset.Reference
}

// ReferencesTo returns every resolved reference to resource path across all
// parsed documents, in file then source order.
func (r *Result) ReferencesTo(path string) []Usage {
	if r == nil {
		return nil
	}
	var usages []Usage
	for _, file := range r.Files {
		if file.State == nil {
			continue
		}
		for _, ref := range file.State.ReferencesTo(path) {
			usages = append(usages, Usage{Path: file.Path, Reference: ref})
		}
	}
	return usages
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesParsed++
	if outcome.Stats.Truncated {
		r.Stats.FilesTruncated++
	}
	r.Stats.Sections += outcome.Stats.Sections
	r.Stats.Symbols += outcome.Stats.Symbols
	r.Stats.References += outcome.Stats.References
	r.Stats.Unresolved += outcome.Stats.Unresolved
}
