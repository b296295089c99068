package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gdasset/pkg/asset"
	"github.com/yaklabco/gdasset/pkg/runner"
)

// jsonSchemaVersion identifies the JSON output layout.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string         `json:"version"`
	Files   []JSONDocument `json:"files"`
	Summary JSONSummary    `json:"summary"`
}

// JSONDocument represents one parsed document.
type JSONDocument struct {
	Path         string            `json:"path"`
	Document     string            `json:"document,omitempty"`
	Error        string            `json:"error,omitempty"`
	UID          string            `json:"uid,omitempty"`
	RootNode     string            `json:"rootNode,omitempty"`
	Truncated    bool              `json:"truncated,omitempty"`
	TruncatedAt  *JSONPosition     `json:"truncatedAt,omitempty"`
	Stats        *runner.FileStats `json:"stats,omitempty"`
	ExtResources []JSONResource    `json:"extResources,omitempty"`
	SubResources []JSONResource    `json:"subResources,omitempty"`
	References   []JSONReference   `json:"references,omitempty"`
	Symbols      []JSONSymbol      `json:"symbols,omitempty"`
}

// JSONPosition is a zero-based line and byte column.
type JSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// JSONRange is a half-open position range.
type JSONRange struct {
	Start JSONPosition `json:"start"`
	End   JSONPosition `json:"end"`
}

// JSONResource is one entry of a resource table.
type JSONResource struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Type string `json:"type,omitempty"`
}

// JSONReference is one reference site with its resolution.
type JSONReference struct {
	Keyword  string    `json:"keyword"`
	ID       string    `json:"id"`
	Range    JSONRange `json:"range"`
	Resolved bool      `json:"resolved"`
	Path     string    `json:"path,omitempty"`
	Type     string    `json:"type,omitempty"`
}

// JSONSymbol is one outline symbol.
type JSONSymbol struct {
	Name      string           `json:"name"`
	Detail    string           `json:"detail,omitempty"`
	Kind      asset.SymbolKind `json:"kind"`
	Range     JSONRange        `json:"range"`
	Selection JSONRange        `json:"selectionRange"`
	Children  []JSONSymbol     `json:"children,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesParsed     int `json:"filesParsed"`
	FilesErrored    int `json:"filesErrored"`
	FilesTruncated  int `json:"filesTruncated"`
	Symbols         int `json:"symbols"`
	References      int `json:"references"`
	Unresolved      int `json:"unresolved"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Unresolved, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONDocument, 0),
	}
	if result == nil {
		return output
	}

	output.Summary = JSONSummary{
		FilesDiscovered: result.Stats.FilesDiscovered,
		FilesParsed:     result.Stats.FilesParsed,
		FilesErrored:    result.Stats.FilesErrored,
		FilesTruncated:  result.Stats.FilesTruncated,
		Symbols:         result.Stats.Symbols,
		References:      result.Stats.References,
		Unresolved:      result.Stats.Unresolved,
	}

	output.Files = make([]JSONDocument, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.buildDocument(file))
	}

	return output
}

func (r *JSONReporter) buildDocument(file runner.FileOutcome) JSONDocument {
	doc := JSONDocument{Path: r.opts.displayPath(file.Path), Document: file.DocPath}
	if file.Error != nil {
		doc.Error = file.Error.Error()
		return doc
	}

	state := file.State
	stats := file.Stats
	doc.Stats = &stats
	doc.UID = state.UID
	doc.RootNode = state.RootNode
	doc.Truncated = state.Truncated
	if state.Truncated {
		at := jsonPosition(state.TruncatedAt)
		doc.TruncatedAt = &at
	}

	doc.ExtResources = jsonTable(state.ExtResources)
	doc.SubResources = jsonTable(state.SubResources)

	for _, ref := range state.References {
		res := state.Lookup(ref.Keyword, ref.ID)
		entry := JSONReference{
			Keyword:  string(ref.Keyword),
			ID:       ref.ID,
			Range:    jsonRange(ref.Span),
			Resolved: res.Resolved(),
		}
		if res.Resolved() {
			entry.Path = res.Descriptor.Path
			entry.Type = res.Descriptor.Type
		}
		doc.References = append(doc.References, entry)
	}

	if r.opts.Outline {
		doc.Symbols = jsonSymbols(state.Symbols)
	}

	return doc
}

func jsonTable(table asset.ResourceTable) []JSONResource {
	if len(table) == 0 {
		return nil
	}
	ids := table.IDs()
	entries := make([]JSONResource, 0, len(ids))
	for _, id := range ids {
		desc := table[id]
		entries = append(entries, JSONResource{ID: id, Path: desc.Path, Type: desc.Type})
	}
	return entries
}

func jsonSymbols(symbols []*asset.Symbol) []JSONSymbol {
	if len(symbols) == 0 {
		return nil
	}
	out := make([]JSONSymbol, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, JSONSymbol{
			Name:      sym.Name,
			Detail:    sym.Detail,
			Kind:      sym.Kind,
			Range:     jsonRange(sym.Range),
			Selection: jsonRange(sym.Selection),
			Children:  jsonSymbols(sym.Children),
		})
	}
	return out
}

func jsonPosition(p asset.Position) JSONPosition {
	return JSONPosition{Line: p.Line, Column: p.Column}
}

func jsonRange(s asset.Span) JSONRange {
	return JSONRange{Start: jsonPosition(s.Start), End: jsonPosition(s.End)}
}
