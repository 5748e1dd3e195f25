package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"entrybot/internal/batch"
	"entrybot/internal/source"
)

var (
	successColor = lipgloss.Color("#8BC34A")
	failureColor = lipgloss.Color("#e53935")
	mutedColor   = lipgloss.Color("#6b7280")

	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	okStyle       = cellStyle.Foreground(successColor)
	failStyle     = cellStyle.Foreground(failureColor)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	footnoteStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

const maxTitleWidth = 40

// renderSummary prints one row per outcome followed by the totals.
func renderSummary(w io.Writer, report *batch.Report) {
	if report == nil {
		return
	}

	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		status, detail := "ok", o.Path
		if !o.OK() {
			status, detail = "failed", fmt.Sprintf("%s: %v", o.Stage, o.Err)
		}
		rows = append(rows, []string{o.RecordID, truncate(o.Title, maxTitleWidth), status, detail, o.Duration.Round(time.Millisecond).String()})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("POST", "TITLE", "STATUS", "DETAIL", "TIME").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 && row >= 0 && row < len(rows) && rows[row][2] == "ok":
				return okStyle
			case col == 2:
				return failStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(w, titleStyle.Render("Run summary"))
	if len(rows) > 0 {
		fmt.Fprintln(w, t.Render())
	}
	fmt.Fprintln(w, footnoteStyle.Render(fmt.Sprintf(
		"%d succeeded, %d failed, %d cleanup sweeps in %s. Files in %s",
		report.Succeeded, report.Failed, report.Sweeps, report.Duration.Round(time.Millisecond), report.OutputDir)))
}

// renderRecords prints a fetched batch.
func renderRecords(w io.Writer, records []source.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No posts fetched.")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.ID.String(), truncate(r.Title, maxTitleWidth), strconv.Itoa(len(r.Content()))})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("POST", "TITLE", "CHARS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
