package index

import (
	"context"

	"github.com/yaklabco/gdasset/pkg/asset"
)

// SymbolTree returns the document's top-level symbols in source order.
func (ix *Index) SymbolTree(ctx context.Context, doc asset.Document) ([]*asset.Symbol, error) {
	state, err := ix.Parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	return state.Symbols, nil
}

// IsInString reports whether a cursor at pos is inside a string literal.
func (ix *Index) IsInString(ctx context.Context, doc asset.Document, pos asset.Position) (bool, error) {
	state, err := ix.Parse(ctx, doc)
	if err != nil {
		return false, err
	}
	return state.IsInString(pos), nil
}

// IsInComment reports whether a cursor at pos is inside a comment.
func (ix *Index) IsInComment(ctx context.Context, doc asset.Document, pos asset.Position) (bool, error) {
	state, err := ix.Parse(ctx, doc)
	if err != nil {
		return false, err
	}
	return state.IsInComment(pos), nil
}

// ResolveReference looks up rawID in the table named by keyword. An
// unregistered id yields a Resolution without descriptor, not an error.
func (ix *Index) ResolveReference(
	ctx context.Context,
	doc asset.Document,
	keyword asset.Keyword,
	rawID string,
) (asset.Resolution, error) {
	state, err := ix.Parse(ctx, doc)
	if err != nil {
		return asset.Resolution{}, err
	}
	return state.Resolve(keyword, rawID), nil
}

// ResourceTables returns the external and local resource tables.
func (ix *Index) ResourceTables(
	ctx context.Context,
	doc asset.Document,
) (asset.ResourceTable, asset.ResourceTable, error) {
	state, err := ix.Parse(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	return state.ExtResources, state.SubResources, nil
}

// ReferenceAt returns the reference call under pos and its resolution.
func (ix *Index) ReferenceAt(
	ctx context.Context,
	doc asset.Document,
	pos asset.Position,
) (asset.Reference, asset.Resolution, bool, error) {
	state, err := ix.Parse(ctx, doc)
	if err != nil {
		return asset.Reference{}, asset.Resolution{}, false, err
	}
	ref, ok := state.ReferenceAt(pos)
	if !ok {
		return asset.Reference{}, asset.Resolution{}, false, nil
	}
	return ref, state.Lookup(ref.Keyword, ref.ID), true, nil
}

// Definition returns the section symbol that declared the referenced
// resource, or nil when the id is unresolved.
func (ix *Index) Definition(
	ctx context.Context,
	doc asset.Document,
	keyword asset.Keyword,
	rawID string,
) (*asset.Symbol, error) {
	res, err := ix.ResolveReference(ctx, doc, keyword, rawID)
	if err != nil || !res.Resolved() {
		return nil, err
	}
	return res.Descriptor.Symbol, nil
}

// ReferencesTo lists the reference calls that resolve to path.
func (ix *Index) ReferencesTo(ctx context.Context, doc asset.Document, path string) ([]asset.Reference, error) {
	state, err := ix.Parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	return state.ReferencesTo(path), nil
}

// SymbolAt returns the innermost symbol containing pos, or nil.
func (ix *Index) SymbolAt(ctx context.Context, doc asset.Document, pos asset.Position) (*asset.Symbol, error) {
	state, err := ix.Parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	return state.SymbolAt(pos), nil
}
