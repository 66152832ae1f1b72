// Package ui renders the live distance table and results history as colored
// terminal output for the headless solve mode.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vk/pathlab/internal/history"
	"github.com/vk/pathlab/internal/table"
)

var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
	Mark   = color.New(color.FgYellow, color.Bold)
)

// Banner prints the application banner.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s — %s\n\n", Brand.Sprint("pathlab"), subtitle)
}

// Table prints a simple aligned table.
func Table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, headerLine)
	Subtle.Fprintln(w, sepLine)

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, line)
	}
}

// DistanceTable prints the live distance table, marking the highlighted row.
func DistanceTable(w io.Writer, t *table.Table) {
	headers := t.Columns()
	highlighted := t.Highlighted()

	var rows [][]string
	for _, r := range t.Rows() {
		var cells []string
		if len(headers) == 5 {
			cells = []string{r.Node.String(), r.G, r.H, r.F, r.Prev}
		} else {
			cells = []string{r.Node.String(), r.Cost, r.Prev}
		}
		if highlighted == r.Node {
			cells[0] = Mark.Sprint(cells[0])
		}
		rows = append(rows, cells)
	}
	Table(w, headers, rows)
}

// ResultsHistory prints every completed run in order.
func ResultsHistory(w io.Writer, h *history.History) {
	records := h.Records()
	if len(records) == 0 {
		Subtle.Fprintln(w, "  no completed runs")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Algorithm, r.Cost, fmt.Sprintf("%d", r.NodesVisited), StatusIcon(r.Succeeded)})
	}
	Table(w, []string{"Algorithm", "Cost", "Visited", "Result"}, rows)
}

// StatusIcon returns a pass/fail marker.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}
