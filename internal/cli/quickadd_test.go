package cli

import (
	"testing"
	"time"

	"github.com/dori/taskhub/internal/model"
)

// Wednesday
var refNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func TestParseQuickAdd(t *testing.T) {
	qa := parseQuickAdd("Review PR @work !high due:tomorrow @work @docs", refNow)

	if qa.task.Title != "Review PR" {
		t.Errorf("title = %q", qa.task.Title)
	}
	if qa.task.Priority != model.PriorityHigh {
		t.Errorf("priority = %q", qa.task.Priority)
	}
	if len(qa.tags) != 2 || qa.tags[0] != "work" || qa.tags[1] != "docs" {
		t.Errorf("tags = %v", qa.tags)
	}
	want := time.Date(2026, 10, 15, 23, 59, 59, 0, time.UTC)
	if qa.task.DueDate == nil || !qa.task.DueDate.Equal(want) {
		t.Errorf("due = %v, want %v", qa.task.DueDate, want)
	}
}

func TestParseQuickAddKeepsUnknownWords(t *testing.T) {
	qa := parseQuickAdd("Ship it !now due:someday", refNow)
	if qa.task.Title != "Ship it !now due:someday" {
		t.Errorf("title = %q", qa.task.Title)
	}
	if qa.task.Priority != "" || qa.task.DueDate != nil {
		t.Errorf("unexpected parsed fields: %+v", qa.task)
	}
}

func TestParseNaturalDate(t *testing.T) {
	cases := map[string]time.Time{
		"today":      time.Date(2026, 10, 14, 23, 59, 59, 0, time.UTC),
		"fri":        time.Date(2026, 10, 16, 23, 59, 59, 0, time.UTC),
		"wednesday":  time.Date(2026, 10, 21, 23, 59, 59, 0, time.UTC),
		"nextweek":   time.Date(2026, 10, 21, 23, 59, 59, 0, time.UTC),
		"2026-12-01": time.Date(2026, 12, 1, 23, 59, 59, 0, time.UTC),
	}
	for in, want := range cases {
		got := parseNaturalDate(in, refNow)
		if got == nil || !got.Equal(want) {
			t.Errorf("parseNaturalDate(%q) = %v, want %v", in, got, want)
		}
	}
	if got := parseNaturalDate("whenever", refNow); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestFormatDueDate(t *testing.T) {
	cases := []struct {
		due  time.Time
		want string
	}{
		{refNow.Add(2 * time.Hour), "today"},
		{refNow.AddDate(0, 0, 1), "tomorrow"},
		{time.Date(2026, 12, 24, 12, 0, 0, 0, time.UTC), "Thu, Dec 24"},
		{time.Date(2027, 1, 5, 12, 0, 0, 0, time.UTC), "Jan 5, 2027"},
	}
	for _, tc := range cases {
		if got := formatDueDate(tc.due, refNow); got != tc.want {
			t.Errorf("formatDueDate(%v) = %q, want %q", tc.due, got, tc.want)
		}
	}
}
