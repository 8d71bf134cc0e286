package cli

import (
	"strings"
	"time"

	"github.com/dori/taskhub/internal/model"
)

// quickAdd is a task parsed from quick-add text
type quickAdd struct {
	task model.NewTask
	tags []string
}

// parseQuickAdd extracts @tags, !priority and due:date words from text. The
// remaining words form the title.
func parseQuickAdd(text string, now time.Time) quickAdd {
	var qa quickAdd
	var titleParts []string

	for _, word := range strings.Fields(text) {
		switch {
		// Tags (@home, @work, etc.)
		case strings.HasPrefix(word, "@") && len(word) > 1:
			qa.tags = appendUnique(qa.tags, strings.TrimPrefix(word, "@"))

		// Priority (!low, !high, etc.)
		case strings.HasPrefix(word, "!"):
			switch strings.ToLower(strings.TrimPrefix(word, "!")) {
			case "low", "l":
				qa.task.Priority = model.PriorityLow
			case "medium", "med", "m":
				qa.task.Priority = model.PriorityMedium
			case "high", "hi", "h", "urgent", "u":
				qa.task.Priority = model.PriorityHigh
			default:
				titleParts = append(titleParts, word)
			}

		// Due date (due:tomorrow, due:friday, due:2026-01-15)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			if parsed := parseNaturalDate(word[len("due:"):], now); parsed != nil {
				qa.task.DueDate = parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	qa.task.Title = strings.Join(titleParts, " ")
	return qa
}

// parseNaturalDate resolves words like "tomorrow" or "fri" and a few date
// layouts relative to now. Dates resolve to the end of the day.
func parseNaturalDate(s string, now time.Time) *time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	switch strings.ToLower(s) {
	case "today":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "monday", "mon":
		return nextWeekday(today, time.Monday)
	case "tuesday", "tue":
		return nextWeekday(today, time.Tuesday)
	case "wednesday", "wed":
		return nextWeekday(today, time.Wednesday)
	case "thursday", "thu":
		return nextWeekday(today, time.Thursday)
	case "friday", "fri":
		return nextWeekday(today, time.Friday)
	case "saturday", "sat":
		return nextWeekday(today, time.Saturday)
	case "sunday", "sun":
		return nextWeekday(today, time.Sunday)
	case "nextweek":
		t := today.AddDate(0, 0, 7)
		return &t
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"Jan 2, 2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, now.Location()); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, now.Location())
			return &t
		}
	}

	return nil
}

// nextWeekday returns the next occurrence of day strictly after today
func nextWeekday(today time.Time, day time.Weekday) *time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	t := today.AddDate(0, 0, daysUntil)
	return &t
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
