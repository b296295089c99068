package index_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdasset/pkg/asset"
	"github.com/yaklabco/gdasset/pkg/index"
)

const scene = `[gd_scene load_steps=2 format=3]

[ext_resource type="Texture2D" path="res://a.png" id="1"]

[node name="Root" type="Sprite2D"]
texture = ExtResource("1")
missing = ExtResource("2")
; note
tooltip = "multi
line"
`

func newDoc(version int, text string) *asset.TextDocument {
	return asset.NewTextDocument("res://main.tscn", version, []byte(text))
}

// countingDoc counts line reads so tests can tell whether a parse happened.
type countingDoc struct {
	*asset.TextDocument

	mu    sync.Mutex
	reads int
}

func (d *countingDoc) Line(i int) string {
	d.mu.Lock()
	d.reads++
	d.mu.Unlock()
	return d.TextDocument.Line(i)
}

func (d *countingDoc) Reads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads
}

func TestParseIsCachedPerVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ix := index.New()
	doc := &countingDoc{TextDocument: newDoc(1, scene)}

	first, err := ix.Parse(ctx, doc)
	require.NoError(t, err)
	reads := doc.Reads()

	second, err := ix.Parse(ctx, doc)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, reads, doc.Reads(), "cached parse must not rescan")

	updated, err := ix.Parse(ctx, newDoc(2, scene+"[node name=\"Extra\" parent=\".\"]\n"))
	require.NoError(t, err)
	assert.NotSame(t, first, updated)
	assert.Len(t, updated.Symbols, len(first.Symbols)+1)
	assert.Equal(t, 1, ix.Len())
}

func TestReparseIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := index.New().Parse(ctx, newDoc(1, scene))
	require.NoError(t, err)
	second, err := index.New().Parse(ctx, newDoc(1, scene))
	require.NoError(t, err)

	require.Len(t, second.Symbols, len(first.Symbols))
	for i := range first.Symbols {
		assert.Equal(t, first.Symbols[i].Range, second.Symbols[i].Range)
		assert.Equal(t, first.Symbols[i].Selection, second.Symbols[i].Selection)
	}
}

func TestConcurrentParsesShareState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ix := index.New()
	doc := newDoc(1, scene)

	const workers = 16
	states := make([]*asset.State, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := ix.Parse(ctx, doc)
			assert.NoError(t, err)
			states[i] = state
		}()
	}
	wg.Wait()

	for _, state := range states[1:] {
		assert.Same(t, states[0], state)
	}
}

func TestConcurrentDistinctDocuments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ix := index.New()

	var wg sync.WaitGroup
	for _, path := range []string{"a.tscn", "b.tscn", "c.tscn", "d.tscn"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := ix.Parse(ctx, asset.NewTextDocument(path, 1, []byte(scene)))
			assert.NoError(t, err)
			assert.Equal(t, path, state.Path)
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, ix.Len())
}

func TestCloseEvicts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ix := index.New()
	_, err := ix.Parse(ctx, newDoc(1, scene))
	require.NoError(t, err)

	_, ok := ix.Cached("res://main.tscn")
	assert.True(t, ok)

	ix.Close("res://main.tscn")
	_, ok = ix.Cached("res://main.tscn")
	assert.False(t, ok)
	assert.Zero(t, ix.Len())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	ix := index.New()

	_, err := ix.Parse(context.Background(), nil)
	require.ErrorIs(t, err, index.ErrNilDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ix.Parse(ctx, newDoc(1, scene))
	require.ErrorIs(t, err, context.Canceled)
}

func TestQueries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ix := index.New()
	doc := newDoc(1, scene)

	roots, err := ix.SymbolTree(ctx, doc)
	require.NoError(t, err)
	require.Len(t, roots, 3)
	assert.Equal(t, "$Root", roots[2].Name)

	inString, err := ix.IsInString(ctx, doc, asset.Pos(9, 2))
	require.NoError(t, err)
	assert.True(t, inString)

	inString, err = ix.IsInString(ctx, doc, asset.Pos(5, 2))
	require.NoError(t, err)
	assert.False(t, inString)

	inComment, err := ix.IsInComment(ctx, doc, asset.Pos(7, 3))
	require.NoError(t, err)
	assert.True(t, inComment)

	res, err := ix.ResolveReference(ctx, doc, asset.KeywordExt, `"1"`)
	require.NoError(t, err)
	require.True(t, res.Resolved())
	assert.Equal(t, "res://a.png", res.Descriptor.Path)
	assert.Equal(t, "Texture2D", res.Descriptor.Type)

	res, err = ix.ResolveReference(ctx, doc, asset.KeywordExt, `"2"`)
	require.NoError(t, err)
	assert.False(t, res.Resolved())

	ext, sub, err := ix.ResourceTables(ctx, doc)
	require.NoError(t, err)
	assert.Len(t, ext, 1)
	assert.Empty(t, sub)

	ref, refRes, ok, err := ix.ReferenceAt(ctx, doc, asset.Pos(5, 14))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", ref.ID)
	assert.True(t, refRes.Resolved())

	def, err := ix.Definition(ctx, doc, asset.KeywordExt, "1")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "ext_resource", def.Tag)

	def, err = ix.Definition(ctx, doc, asset.KeywordExt, "2")
	require.NoError(t, err)
	assert.Nil(t, def)

	usages, err := ix.ReferencesTo(ctx, doc, "res://a.png")
	require.NoError(t, err)
	assert.Len(t, usages, 1)

	sym, err := ix.SymbolAt(ctx, doc, asset.Pos(6, 3))
	require.NoError(t, err)
	require.NotNil(t, sym)
	assert.Equal(t, "missing", sym.Name)
}

func TestReferenceAtWithQuotedID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ix := index.New()
	doc := asset.NewTextDocument("res://q.tscn", 1, []byte(
		"[ext_resource type=\"Script\" path=\"res://q.gd\" id=\"\\\"1\\\"\"]\n"+
			"[resource]\n"+
			"script = ExtResource(\"\\\"1\\\"\")\n"))

	ref, res, ok, err := ix.ReferenceAt(ctx, doc, asset.Pos(2, 12))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"1"`, ref.ID)
	require.True(t, res.Resolved())
	assert.Equal(t, "res://q.gd", res.Descriptor.Path)

	def, err := ix.Definition(ctx, doc, ref.Keyword, asset.Quote(ref.ID))
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "ext_resource", def.Tag)
}
