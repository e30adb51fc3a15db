package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

// MaxCellWidth bounds every table cell.
const MaxCellWidth = 48

// Tabular values can be printed with --format table.
type Tabular interface {
	Table() (headers []string, rows [][]string)
}

// Rows is a ready-made Tabular.
type Rows struct {
	Headers []string
	Data    [][]string
}

func (r Rows) Table() ([]string, [][]string) { return r.Headers, r.Data }

func WriteTable(w io.Writer, t Tabular) error {
	headers, rows := t.Table()
	clipped := make([][]string, len(rows))
	for i, row := range rows {
		clipped[i] = make([]string, len(row))
		for j, cell := range row {
			clipped[i][j] = ansi.Truncate(cell, MaxCellWidth, "...")
		}
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(clipped...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}
