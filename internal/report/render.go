// render.go prints the comparison table and the warnings section to a
// terminal. Timings are right-aligned so columns of millisecond values line
// up; sentinels share the same alignment to keep the table scannable.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	nameStyle    = lipgloss.NewStyle().Padding(0, 1)
	valueStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// Render writes the table and, if any were collected, the warnings section.
func Render(w io.Writer, t *Table) {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{"Test"}, t.Tools...)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return nameStyle
			default:
				return valueStyle
			}
		})

	for i, name := range t.Tests {
		row := make([]string, 0, len(t.Tools)+1)
		row = append(row, name)
		for _, cell := range t.Cells[i] {
			row = append(row, cell.String())
		}
		tbl.Row(row...)
	}
	fmt.Fprintln(w, tbl.Render())

	if len(t.Warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, warningStyle.Render("Warnings:"))
	for _, warning := range t.Warnings {
		fmt.Fprintf(w, "  [%s / %s] %s\n", warning.Tool, warning.Test, warning.Detail)
		fmt.Fprintf(w, "      command: %s\n", strings.Join(warning.Args, " "))
	}
}
