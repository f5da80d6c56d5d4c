package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"chanfix/internal/audio"
	"chanfix/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// SummaryRows turns a batch summary into RenderSummary rows.
func SummaryRows(s processor.Summary) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Files processed", Value: fmt.Sprintf("%d/%d", s.Processed, s.Total)},
		{Label: "Errors", Value: fmt.Sprintf("%d", s.Errors)},
	}
	if s.Mode == processor.ModeRepair {
		rows = append(rows,
			SummaryRow{Label: "Repaired", Value: fmt.Sprintf("%d", s.Repaired)},
			SummaryRow{Label: "No repair needed", Value: fmt.Sprintf("%d", s.Skipped)},
		)
	}
	rows = append(rows, SummaryRow{Label: "Elapsed", Value: s.Elapsed.Round(time.Millisecond).String()})
	return rows
}

// RenderCategoryTable renders per-classification file counts.
func RenderCategoryTable(counts map[audio.Classification]int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Category", "Name", "Files"})

	total := 0
	for _, c := range audio.All() {
		n := counts[c]
		total += n
		tw.AppendRow(table.Row{c.Label(), c.String(), n})
	}
	tw.AppendFooter(table.Row{"Total", "", total})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// RenderTable renders rows under headers with the same table style.
func RenderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
)
