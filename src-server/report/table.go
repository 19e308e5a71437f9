package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders header and rows as a markdown table, padding cells by display
// width so wide characters line up.
func Table(header []string, rows [][]string) string {
	escape := func(cell string) string {
		return strings.ReplaceAll(cell, "|", `\|`)
	}
	colWidths := make([]int, len(header))
	for i, cell := range header {
		colWidths[i] = max(3, runewidth.StringWidth(escape(cell)))
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if width := runewidth.StringWidth(escape(row[i])); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for j, width := range colWidths {
			content := ""
			if j < len(row) {
				content = escape(row[j])
			}
			sb.WriteString(" ")
			sb.WriteString(content)
			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sb.WriteString("|")
	for _, width := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}
