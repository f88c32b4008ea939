package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// maxLineColumnWidth wraps long log lines so the table stays readable.
const maxLineColumnWidth = 120

// renderLinesTable numbers lines from first and renders them as a rounded table.
func renderLinesTable(lines []string, first int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Line"})
	for i, line := range lines {
		tw.AppendRow(table.Row{strconv.Itoa(first + i), line})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: maxLineColumnWidth},
	})
	return tw.Render()
}

// renderKeyValueTable renders two-column rows such as a status summary.
func renderKeyValueTable(rows [][2]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Value"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	return tw.Render()
}
