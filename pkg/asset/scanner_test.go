package asset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdasset/pkg/asset"
)

func lines(text ...string) string {
	return strings.Join(text, "\n")
}

func TestParseSingleHeader(t *testing.T) {
	t.Parallel()

	header := "[gd_scene load_steps=2 format=3]"
	state := asset.ParseText("main.tscn", header)

	require.Len(t, state.Symbols, 1)
	root := state.Symbols[0]
	assert.Equal(t, "gd_scene", root.Name)
	assert.Equal(t, asset.KindFile, root.Kind)
	assert.Equal(t, asset.Span{Start: asset.Pos(0, 0), End: asset.Pos(0, len(header))}, root.Range)
	assert.Empty(t, root.Children)
	require.NotNil(t, state.Self)
	assert.Equal(t, "main.tscn", state.Self.Path)
	assert.Empty(t, state.Self.Type)
}

func TestParseResourceDocumentSelf(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("theme.tres", `[gd_resource type="Theme" load_steps=3 format=3 uid="uid://c4x"]`)

	require.NotNil(t, state.Self)
	assert.Equal(t, "Theme", state.Self.Type)
	assert.Equal(t, "theme.tres", state.Self.Path)
	assert.Equal(t, "uid://c4x", state.UID)
	assert.Same(t, state.Symbols[0], state.Self.Symbol)
	assert.Equal(t, "Theme", state.Symbols[0].Detail)
}

func TestParseMultiLineString(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("dialog.tres", lines(
		`[resource]`,
		`text = "first`,
		`second`,
		`third"`,
	))

	require.Len(t, state.Strings, 1)
	str := state.Strings[0]
	assert.Equal(t, asset.Pos(1, 7), str.Span.Start)
	assert.Equal(t, asset.Pos(3, 5), str.Span.End)
	assert.Equal(t, "first\nsecond\nthird", str.Value)

	inside := []asset.Position{
		asset.Pos(1, 8), asset.Pos(1, 12), asset.Pos(2, 0), asset.Pos(2, 3), asset.Pos(3, 0), asset.Pos(3, 5),
	}
	for _, pos := range inside {
		assert.True(t, state.IsInString(pos), "expected %v inside string", pos)
	}
	assert.False(t, state.IsInString(asset.Pos(1, 7)), "before opening quote")
	assert.False(t, state.IsInString(asset.Pos(3, 6)), "after closing quote")
	assert.False(t, state.IsInString(asset.Pos(1, 2)), "inside key")

	section := state.Symbols[0]
	require.Len(t, section.Children, 1)
	prop := section.Children[0]
	assert.Equal(t, "text", prop.Name)
	assert.Equal(t, asset.Span{Start: asset.Pos(1, 0), End: asset.Pos(3, 6)}, prop.Range)
	assert.Equal(t, asset.Span{Start: asset.Pos(1, 0), End: asset.Pos(1, 4)}, prop.Selection)
	assert.Equal(t, asset.Pos(3, 6), section.Range.End)
}

func TestParseStringEscapes(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("a.tres", lines(
		`[resource]`,
		`text = "say \"hi\" \\"`,
		`after = 1`,
	))

	require.Len(t, state.Strings, 1)
	assert.Equal(t, `say "hi" \`, state.Strings[0].Value)
	assert.Equal(t, asset.Pos(1, 21), state.Strings[0].Span.End)
	require.Len(t, state.Symbols[0].Children, 2)
	assert.Equal(t, "after", state.Symbols[0].Children[1].Name)
}

func TestParseUnterminatedStringKeepsPrefix(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("broken.tres", lines(
		`[ext_resource type="Script" path="res://a.gd" id="1"]`,
		`[resource]`,
		`a = 1`,
		`b = "open`,
		`c = 2`,
	))

	assert.True(t, state.Truncated)
	assert.Equal(t, asset.Pos(3, 4), state.TruncatedAt)
	require.Len(t, state.Symbols, 2)
	resource := state.Symbols[1]
	require.Len(t, resource.Children, 2)
	assert.Equal(t, "b", resource.Children[1].Name)
	assert.Len(t, state.Strings, 3, "only the header strings survive")
	assert.Contains(t, state.ExtResources, "1")
	assert.Empty(t, state.RootNode)
}

func TestParseComments(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("project.godot", lines(
		`; Engine configuration file.`,
		``,
		`[application] ; trailing`,
		`  # indented`,
		`config/name="Game"`,
	))

	require.Len(t, state.Comments, 3)
	assert.Equal(t, "; Engine configuration file.", state.Comments[0].Text)
	assert.Equal(t, "; trailing", state.Comments[1].Text)
	assert.Equal(t, asset.Span{Start: asset.Pos(3, 2), End: asset.Pos(3, 12)}, state.Comments[2].Span)

	assert.True(t, state.IsInComment(asset.Pos(0, 5)))
	assert.False(t, state.IsInComment(asset.Pos(0, 0)))
	assert.True(t, state.IsInComment(asset.Pos(2, 20)))
	assert.False(t, state.IsInComment(asset.Pos(2, 5)))
	assert.False(t, state.IsInComment(asset.Pos(4, 3)))

	require.Len(t, state.Symbols, 1)
	app := state.Symbols[0]
	assert.Equal(t, "application", app.Name)
	assert.Equal(t, asset.KindNamespace, app.Kind)
	require.Len(t, app.Children, 1)
	assert.Equal(t, asset.KindVariable, app.Children[0].Kind)
}

func TestParseArrayGroups(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("tags.tres", lines(
		`[resource]`,
		`tags[0] = "a"`,
		`tags[1] = "b"`,
		`other = 2`,
	))

	section := state.Symbols[0]
	require.Len(t, section.Children, 2)

	group := section.Children[0]
	assert.Equal(t, "tags[]", group.Name)
	assert.Equal(t, asset.KindArray, group.Kind)
	assert.Equal(t, asset.Span{Start: asset.Pos(1, 0), End: asset.Pos(2, 13)}, group.Range)
	require.Len(t, group.Children, 2)
	assert.Equal(t, "tags[0]", group.Children[0].Name)
	assert.Equal(t, "tags[1]", group.Children[1].Name)

	groups := 0
	for _, child := range section.Children {
		if child.Name == "tags[]" {
			groups++
		}
	}
	assert.Equal(t, 1, groups)
	assert.Equal(t, "other", section.Children[1].Name)
}

func TestParseArrayGroupsAreScopedToSection(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("tags.tres", lines(
		`[sub_resource type="A" id="1"]`,
		`items[0] = 1`,
		`[sub_resource type="A" id="2"]`,
		`items[0] = 2`,
	))

	require.Len(t, state.Symbols, 2)
	for _, section := range state.Symbols {
		require.Len(t, section.Children, 1)
		assert.Equal(t, "items[]", section.Children[0].Name)
	}
}

func TestParsePropertyKinds(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("n.tscn", lines(
		`[node name="Root" type="Node2D"]`,
		`visible = false`,
		`metadata/_edit_lock_ = true`,
		`position = Vector2(1, 2)`,
		`theme_override_colors/font_color = Color(1, 0, 0, 1)`,
	))

	children := state.Symbols[0].Children
	require.Len(t, children, 4)
	assert.Equal(t, asset.KindBoolean, children[0].Kind)
	assert.Equal(t, "false", children[0].Detail)
	assert.Equal(t, asset.KindBoolean, children[1].Kind)
	assert.Equal(t, asset.KindProperty, children[2].Kind)
	assert.Equal(t, "Vector2(1, 2)", children[2].Detail)
	assert.Equal(t, asset.KindVariable, children[3].Kind)
}

func TestParseMultiLineValueExtendsProperty(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("anim.tres", lines(
		`[sub_resource type="Animation" id="1"]`,
		`tracks/0/keys = {`,
		`"times": PackedFloat32Array(0, 1),`,
		`"values": [ExtResource("2"), "x"]`,
		`}`,
		``,
		`; done`,
	))

	prop := state.Symbols[0].Children[0]
	assert.Equal(t, "tracks/0/keys", prop.Name)
	assert.Equal(t, asset.Pos(4, 1), prop.Range.End)
	assert.Equal(t, asset.Pos(4, 1), state.Symbols[0].Range.End)
	require.Len(t, state.References, 1)
	assert.Equal(t, "2", state.References[0].ID)
}

func TestParseTopLevelProperties(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("project.godot", lines(
		`config_version=5`,
		``,
		`[application]`,
		`run/main_scene="res://main.tscn"`,
	))

	require.Len(t, state.Symbols, 2)
	assert.Equal(t, "config_version", state.Symbols[0].Name)
	assert.Equal(t, asset.KindProperty, state.Symbols[0].Kind)
	assert.Equal(t, "application", state.Symbols[1].Name)
}

func TestParseUnknownAndMalformedHeaders(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("odd.tscn", lines(
		`[custom_tag foo=1 bar="x"]`,
		`[another]`,
		`[node name="unclosed"`,
		`[1, 2, 3]`,
		`[connection signal="pressed" from="."]`,
		`[editable]`,
		`[node type="Node"]`,
	))

	require.Len(t, state.Symbols, 5)
	assert.Equal(t, "custom_tag", state.Symbols[0].Name)
	assert.Equal(t, asset.KindObject, state.Symbols[0].Kind)
	assert.Equal(t, "another", state.Symbols[1].Name)
	assert.Equal(t, asset.KindNamespace, state.Symbols[1].Kind)
	assert.Equal(t, "connection", state.Symbols[2].Name)
	assert.Equal(t, asset.KindEvent, state.Symbols[2].Kind)
	assert.Equal(t, "editable", state.Symbols[3].Name)
	assert.Equal(t, "node", state.Symbols[4].Name)
	assert.Equal(t, asset.KindObject, state.Symbols[4].Kind)
}

func TestParseCRLF(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("win.tres", "[resource]\r\nname = \"x\"\r\n")

	require.Len(t, state.Symbols, 1)
	require.Len(t, state.Symbols[0].Children, 1)
	require.Len(t, state.Strings, 1)
	assert.Equal(t, "x", state.Strings[0].Value)
	assert.Equal(t, asset.Pos(1, 9), state.Strings[0].Span.End)
}

func TestParseEmptyAndGarbage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, asset.ParseText("empty.tscn", "").Symbols)

	state := asset.ParseText("garbage.tscn", "]]] === \"\"\" [ [ \\")
	assert.NotNil(t, state)
	assert.True(t, state.Truncated)
}

func TestSymbolAt(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("tags.tres", lines(
		`[resource]`,
		`tags[0] = "a"`,
		`tags[1] = "b"`,
	))

	sym := state.SymbolAt(asset.Pos(2, 11))
	require.NotNil(t, sym)
	assert.Equal(t, "tags[1]", sym.Name)

	sym = state.SymbolAt(asset.Pos(0, 3))
	require.NotNil(t, sym)
	assert.Equal(t, "resource", sym.Name)

	assert.Nil(t, state.SymbolAt(asset.Pos(10, 0)))
}

func TestCountSymbols(t *testing.T) {
	t.Parallel()

	state := asset.ParseText("tags.tres", lines(
		`[resource]`,
		`tags[0] = "a"`,
		`tags[1] = "b"`,
	))

	assert.Equal(t, 4, asset.CountSymbols(state.Symbols))
}
