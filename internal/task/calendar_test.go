package task

import (
	"testing"
	"time"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.Local)
}

func TestGroupByDay(t *testing.T) {
	tasks := []Task{
		{ID: "1", Title: "late", ScheduledOn: at(5, 18)},
		{ID: "2", Title: "early", ScheduledOn: at(5, 8)},
		{ID: "3", Title: "earlier day", ScheduledOn: at(2, 12)},
	}

	days := GroupByDay(tasks)
	if len(days) != 2 {
		t.Fatalf("day count = %d, want 2", len(days))
	}

	// Days ascending.
	if !days[0].Date.Before(days[1].Date) {
		t.Error("days are not sorted ascending")
	}
	if days[0].Tasks[0].ID != "3" {
		t.Errorf("first day holds %q, want task 3", days[0].Tasks[0].ID)
	}

	// Within a day, tasks ordered by scheduled time.
	second := days[1]
	if len(second.Tasks) != 2 {
		t.Fatalf("tasks on day 2 = %d, want 2", len(second.Tasks))
	}
	if second.Tasks[0].ID != "2" || second.Tasks[1].ID != "1" {
		t.Errorf("tasks within day not time-ordered: %q, %q", second.Tasks[0].ID, second.Tasks[1].ID)
	}
}

func TestGroupByDayEmpty(t *testing.T) {
	if days := GroupByDay(nil); len(days) != 0 {
		t.Errorf("day count = %d, want 0", len(days))
	}
}

func TestOnDay(t *testing.T) {
	tasks := []Task{
		{ID: "1", ScheduledOn: at(5, 18)},
		{ID: "2", ScheduledOn: at(5, 8)},
		{ID: "3", ScheduledOn: at(6, 9)},
	}

	got := OnDay(tasks, at(5, 0))
	if len(got) != 2 {
		t.Fatalf("task count = %d, want 2", len(got))
	}
	if got[0].ID != "2" {
		t.Errorf("first task = %q, want 2 (time-ordered)", got[0].ID)
	}

	if got := OnDay(tasks, at(7, 0)); len(got) != 0 {
		t.Errorf("tasks on empty day = %d, want 0", len(got))
	}
}

func TestMidnight(t *testing.T) {
	in := time.Date(2026, 3, 5, 23, 59, 59, 12345, time.Local)
	got := Midnight(in)
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Midnight = %v, want %v", got, want)
	}
}
