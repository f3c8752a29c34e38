// Package report renders the end-of-run summary shown to operators.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"eventpipe/internal/dataset"
	"eventpipe/internal/models"
	"eventpipe/internal/pipeline"
)

// Render produces a plain-text run summary: per-source results, the
// validation and merge funnel, and per-category counts of the
// committed dataset.
func Render(stats *pipeline.RunStats, events []models.Event) string {
	var sb strings.Builder

	sb.WriteString("Run Summary\n")
	sb.WriteString(fmt.Sprintf("  started:  %s\n", stats.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("  duration: %s\n", stats.Duration.Round(10*time.Millisecond)))
	sb.WriteString(fmt.Sprintf("  scraped %d, admitted %d, rejected %d, flagged %d, published %d\n\n",
		stats.Scraped, stats.Admitted, stats.Rejected, stats.Flagged, stats.Published))

	sb.WriteString("Sources\n")
	sb.WriteString(renderTable(sourceRows(stats)))
	sb.WriteString("\n")

	if len(stats.RejectsByReason) > 0 {
		sb.WriteString("Rejects\n")
		sb.WriteString(renderTable(reasonRows(stats.RejectsByReason)))
		sb.WriteString("\n")
	}

	if len(stats.FlagsByReason) > 0 {
		sb.WriteString("Flags\n")
		sb.WriteString(renderTable(reasonRows(stats.FlagsByReason)))
		sb.WriteString("\n")
	}

	sb.WriteString("Categories\n")
	sb.WriteString(renderTable(categoryRows(events)))

	return sb.String()
}

func sourceRows(stats *pipeline.RunStats) [][]string {
	rows := [][]string{{"source", "status", "candidates", "error"}}

	for _, result := range stats.Sources {
		errText := result.Error
		if errText == "" {
			errText = "-"
		}

		rows = append(rows, []string{
			result.SourceName,
			string(result.Status),
			fmt.Sprintf("%d", result.Candidates),
			errText,
		})
	}

	return rows
}

func reasonRows(byReason map[string]int) [][]string {
	reasons := make([]string, 0, len(byReason))
	for reason := range byReason {
		reasons = append(reasons, reason)
	}

	sort.Strings(reasons)

	rows := [][]string{{"reason", "count"}}
	for _, reason := range reasons {
		rows = append(rows, []string{reason, fmt.Sprintf("%d", byReason[reason])})
	}

	return rows
}

func categoryRows(events []models.Event) [][]string {
	counts := dataset.CountByCategory(events)

	rows := [][]string{{"category", "events"}}

	for _, category := range models.Categories() {
		if n := counts[string(category)]; n > 0 {
			rows = append(rows, []string{string(category), fmt.Sprintf("%d", n)})
		}
	}

	return rows
}

// renderTable aligns columns by display width so venue names with
// wide runes stay lined up.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	widths := make([]int, colCount)

	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder

	for rowIdx, row := range rows {
		sb.WriteString(" ")

		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			sb.WriteString(cell)

			if i < colCount-1 {
				padding := widths[i] - runewidth.StringWidth(cell)
				sb.WriteString(strings.Repeat(" ", padding+2))
			}
		}

		sb.WriteString("\n")

		if rowIdx == 0 {
			sb.WriteString(" ")

			for i, width := range widths {
				sb.WriteString(strings.Repeat("-", width))

				if i < colCount-1 {
					sb.WriteString("  ")
				}
			}

			sb.WriteString("\n")
		}
	}

	return sb.String()
}
