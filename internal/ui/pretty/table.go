package pretty

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/gdasset/pkg/runner"
)

// statsColumns are the headers of the per-file stats table.
//
//nolint:gochecknoglobals // Read-only lookup table.
var statsColumns = []string{"FILE", "SECTIONS", "SYMBOLS", "EXT", "SUB", "REFS", "UNRESOLVED", "STATUS"}

// PathFunc maps an absolute file path to its display form.
type PathFunc func(path string) string

// FormatStatsTable renders one row of stats per file, bounded by width.
func (s *Styles) FormatStatsTable(result *runner.Result, width int, display PathFunc) string {
	if display == nil {
		display = func(path string) string { return path }
	}
	if width <= 0 {
		width = defaultTermWidth
	}

	statusCol := len(statsColumns) - 1
	rows := make([][]string, 0, len(result.Files))
	statuses := make([]lipgloss.Style, 0, len(result.Files))

	for _, file := range result.Files {
		if file.Error != nil {
			rows = append(rows, []string{display(file.Path), "-", "-", "-", "-", "-", "-", "error"})
			statuses = append(statuses, s.Error)
			continue
		}

		st := file.Stats
		status, style := "ok", s.Success
		switch {
		case st.Truncated:
			status, style = "truncated", s.Warning
		case st.Unresolved > 0:
			status, style = "unresolved", s.Error
		}

		rows = append(rows, []string{
			display(file.Path),
			strconv.Itoa(st.Sections),
			strconv.Itoa(st.Symbols),
			strconv.Itoa(st.ExtResources),
			strconv.Itoa(st.SubResources),
			strconv.Itoa(st.References),
			strconv.Itoa(st.Unresolved),
			status,
		})
		statuses = append(statuses, style)
	}

	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.TableBorder).
		Headers(statsColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == statusCol && row >= 0 && row < len(statuses) {
				return statuses[row].Padding(0, 1)
			}
			return cell
		})

	if lipgloss.Width(t.String()) > width {
		t = t.Width(width)
	}

	return t.String() + "\n"
}
