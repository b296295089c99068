package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdasset/internal/ui/pretty"
	"github.com/yaklabco/gdasset/pkg/asset"
	"github.com/yaklabco/gdasset/pkg/fsutil"
	"github.com/yaklabco/gdasset/pkg/index"
	"github.com/yaklabco/gdasset/pkg/runner"
)

func newResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve FILE LINE:COL",
		Short: "Describe the symbol and reference at a position",
		Long: `Describe what sits at a position in an asset document.

Prints the innermost symbol containing the position, whether the position
is inside a string literal or a comment, and, when the cursor is on an
ExtResource or SubResource call, the resource it resolves to and the
section that declares it. Lines and columns are 1-based.

Examples:
  gdasset resolve main.tscn 12:18`,
		Args: cobra.ExactArgs(2),
		RunE: runResolve,
	}

	return cmd
}

// parsePosition parses a 1-based "line:col" into a zero-based Position.
func parsePosition(text string) (asset.Position, error) {
	lineText, colText, ok := strings.Cut(text, ":")
	if !ok {
		return asset.Position{}, fmt.Errorf("position %q: expected LINE:COL", text)
	}
	line, err := strconv.Atoi(lineText)
	if err != nil || line < 1 {
		return asset.Position{}, fmt.Errorf("position %q: invalid line", text)
	}
	col, err := strconv.Atoi(colText)
	if err != nil || col < 1 {
		return asset.Position{}, fmt.Errorf("position %q: invalid column", text)
	}
	return asset.Pos(line-1, col-1), nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args[1])
	if err != nil {
		return exitError(ExitInvalidUsage, err)
	}

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}

	path := sess.abs(args[0])
	content, _, err := fsutil.ReadFile(sess.ctx, path)
	if err != nil {
		return exitError(ExitIOError, err)
	}

	doc := asset.NewTextDocument(runner.ResourcePath(sess.rootFor(path), path), 1, content)
	ix := index.New()
	styles := sess.styles(cmd)
	out := cmd.OutOrStdout()
	display := sess.displayPath(path)

	fmt.Fprintf(out, "%s%s\n", styles.FilePath.Render(display), styles.Location.Render(":"+pos.String()))

	sym, err := ix.SymbolAt(sess.ctx, doc, pos)
	if err != nil {
		return err
	}
	if sym != nil {
		writeField(out, styles, "symbol", styles.SymbolLabel(sym, true))
	} else {
		writeField(out, styles, "symbol", styles.Dim.Render("none"))
	}

	inString, err := ix.IsInString(sess.ctx, doc, pos)
	if err != nil {
		return err
	}
	inComment, err := ix.IsInComment(sess.ctx, doc, pos)
	if err != nil {
		return err
	}
	switch {
	case inString:
		writeField(out, styles, "context", "string")
	case inComment:
		writeField(out, styles, "context", "comment")
	default:
		writeField(out, styles, "context", "code")
	}

	ref, res, ok, err := ix.ReferenceAt(sess.ctx, doc, pos)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	call := styles.Reference.Render(pretty.FormatReferenceCall(ref.Keyword, ref.ID))
	if !res.Resolved() {
		writeField(out, styles, "reference", call+" "+styles.Error.Render("unresolved"))
		return exitError(ExitUnresolved, ErrUnresolved)
	}

	target := res.Descriptor.Path
	if res.Descriptor.Type != "" {
		target += " " + styles.Detail.Render(res.Descriptor.Type)
	}
	writeField(out, styles, "reference", call+" -> "+target)

	def, err := ix.Definition(sess.ctx, doc, ref.Keyword, asset.Quote(ref.ID))
	if err != nil {
		return err
	}
	if def != nil {
		writeField(out, styles, "defined",
			styles.FilePath.Render(display)+styles.Location.Render(":"+def.Selection.Start.String())+" "+def.Tag)
	}

	return nil
}

func writeField(out io.Writer, styles *pretty.Styles, name, value string) {
	fmt.Fprintf(out, "  %s %s\n", styles.Dim.Render(fmt.Sprintf("%-9s", name)), value)
}
