package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gdasset/pkg/asset"
	"github.com/yaklabco/gdasset/pkg/runner"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 documents, 41 symbols, 12 references, 1 unresolved".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesParsed == 0 && stats.FilesErrored == 0 {
		return s.Dim.Render("No asset documents found") + "\n"
	}

	parts := []string{
		plural(stats.FilesParsed, "document", "documents"),
		plural(stats.Symbols, "symbol", "symbols"),
		plural(stats.References, "reference", "references"),
	}

	if stats.Unresolved > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d unresolved", stats.Unresolved)))
	} else {
		parts = append(parts, s.Success.Render("all resolved"))
	}
	if stats.FilesTruncated > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d truncated", stats.FilesTruncated)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatReferenceCall renders a reference as it appears in source.
func FormatReferenceCall(keyword asset.Keyword, id string) string {
	return string(keyword) + "(" + asset.Quote(id) + ")"
}

// FormatUnresolved formats an unresolved reference as "path:line:col: Call(id) unresolved".
func (s *Styles) FormatUnresolved(path string, ref asset.Reference) string {
	return fmt.Sprintf("%s%s %s %s\n",
		s.FilePath.Render(path),
		s.Location.Render(":"+ref.Span.Start.String()+":"),
		s.Reference.Render(FormatReferenceCall(ref.Keyword, ref.ID)),
		s.Error.Render("unresolved"),
	)
}

// FormatTruncated formats the unterminated string warning for a document.
func (s *Styles) FormatTruncated(path string, at asset.Position) string {
	return fmt.Sprintf("%s%s %s\n",
		s.FilePath.Render(path),
		s.Location.Render(":"+at.String()+":"),
		s.Warning.Render("unterminated string; symbols after this point are missing"),
	)
}

// FormatUsage formats one reference site as "path:line:col Call(id)".
func (s *Styles) FormatUsage(path string, ref asset.Reference) string {
	return fmt.Sprintf("%s%s %s\n",
		s.FilePath.Render(path),
		s.Location.Render(":"+ref.Span.Start.String()),
		s.Reference.Render(FormatReferenceCall(ref.Keyword, ref.ID)),
	)
}

// FormatDocumentLine formats one document's stats on a single line.
// Example: "main.tscn: 14 symbols, 3 references, all resolved".
func (s *Styles) FormatDocumentLine(path string, stats runner.FileStats, truncatedAt asset.Position) string {
	parts := []string{
		plural(stats.Symbols, "symbol", "symbols"),
		plural(stats.References, "reference", "references"),
	}
	if stats.Unresolved > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d unresolved", stats.Unresolved)))
	} else {
		parts = append(parts, s.Success.Render("all resolved"))
	}
	if stats.Truncated {
		parts = append(parts, s.Warning.Render("truncated at "+truncatedAt.String()))
	}
	return s.FilePath.Render(path) + ": " + strings.Join(parts, ", ") + "\n"
}
