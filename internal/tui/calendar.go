package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ondrejk/taskwell/internal/task"
)

var (
	calHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(secondaryColor)
	calTodayStyle  = lipgloss.NewStyle().Foreground(fgColor).Background(primaryColor).Bold(true)
	calBusyStyle   = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	calDimStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)

// renderCalendar draws a month grid where each task is a point-in-time event
// on its scheduled day, plus the agenda for the selected day.
func (a *App) renderCalendar(height int) string {
	var b strings.Builder

	tasks := a.store.Tasks()
	month := a.month

	b.WriteString("\n  " + calHeaderStyle.Render(month.Format("January 2006")) + "\n\n")
	b.WriteString("  " + calDimStyle.Render(" Mo  Tu  We  Th  Fr  Sa  Su") + "\n")

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	// Monday-first column offset.
	offset := (int(first.Weekday()) + 6) % 7
	today := task.Midnight(time.Now())

	b.WriteString("  " + strings.Repeat("    ", offset))
	col := offset
	for day := first; day.Month() == month.Month(); day = day.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%3d", day.Day())
		scheduled := task.OnDay(tasks, day)
		switch {
		case day.Equal(today):
			cell = calTodayStyle.Render(cell)
		case len(scheduled) > 0:
			cell = calBusyStyle.Render(cell)
		default:
			cell = calDimStyle.Render(cell)
		}
		b.WriteString(cell + " ")
		col++
		if col%7 == 0 {
			b.WriteString("\n  ")
		}
	}
	b.WriteString("\n\n")

	// Agenda for the month, days ascending.
	shown := 0
	for _, day := range task.GroupByDay(tasks) {
		if day.Date.Month() != month.Month() || day.Date.Year() != month.Year() {
			continue
		}
		b.WriteString("  " + calHeaderStyle.Render(day.Date.Format("Mon 02 Jan")) + "\n")
		for _, t := range day.Tasks {
			mark := "○"
			if t.IsCompleted {
				mark = "●"
			}
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				mark, t.ScheduledOn.Local().Format("15:04"), t.Title))
			shown++
		}
		if shown >= height {
			break
		}
	}
	if shown == 0 {
		b.WriteString("  " + calDimStyle.Render("Nothing scheduled this month.") + "\n")
	}

	return b.String()
}
