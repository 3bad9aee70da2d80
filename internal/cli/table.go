// Package cli provides table helpers for human-readable output.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
)

const (
	tablePadding = 2
	// maxCellWidth keeps titles and example values from stretching a row past
	// a typical terminal.
	maxCellWidth = 48
)

// writeTable prints rows aligned under headers. Cells wider than
// maxCellWidth display cells are cut with an ellipsis; embedded newlines
// become spaces so a multi-line value never breaks the grid.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', tabwriter.StripEscape)
	if len(headers) > 0 {
		fmt.Fprintln(writer, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = tableCell(cell)
		}
		fmt.Fprintln(writer, strings.Join(cells, "\t"))
	}
	return writer.Flush()
}

func tableCell(value string) string {
	value = strings.Join(strings.Fields(strings.ReplaceAll(value, "\t", " ")), " ")
	if strings.Contains(value, "\033[") {
		return value
	}
	return runewidth.Truncate(value, maxCellWidth, "…")
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
