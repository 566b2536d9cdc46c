package task

import (
	"sort"
	"time"
)

// Day is one calendar day together with the tasks scheduled on it.
type Day struct {
	Date  time.Time // midnight, local time
	Tasks []Task
}

// GroupByDay projects the tasks onto calendar days, ascending, with tasks
// inside a day ordered by their scheduled time.
func GroupByDay(tasks []Task) []Day {
	byDay := make(map[time.Time][]Task)
	for _, t := range tasks {
		d := Midnight(t.ScheduledOn.Local())
		byDay[d] = append(byDay[d], t)
	}

	days := make([]Day, 0, len(byDay))
	for date, ts := range byDay {
		sort.Slice(ts, func(i, j int) bool {
			return ts[i].ScheduledOn.Before(ts[j].ScheduledOn)
		})
		days = append(days, Day{Date: date, Tasks: ts})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// Midnight truncates a time to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// OnDay returns the tasks scheduled on the same calendar day as date,
// ordered by scheduled time.
func OnDay(tasks []Task, date time.Time) []Task {
	day := Midnight(date)
	var out []Task
	for _, t := range tasks {
		if Midnight(t.ScheduledOn.Local()).Equal(day) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledOn.Before(out[j].ScheduledOn)
	})
	return out
}
