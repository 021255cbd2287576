package planner

import "time"

// ISODate is the calendar date layout used for the start parameter and
// in plan labels.
const ISODate = "2006-01-02"

// StartOfWeek returns the Monday of the week containing d, truncated to
// midnight in d's location.
func StartOfWeek(d time.Time) time.Time {
	// time.Weekday counts Sunday as 0; shift so Monday is offset 0.
	offset := (int(d.Weekday()) + 6) % 7
	d = d.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// ParseWeekStart resolves an optional user-supplied start date. An empty
// or unparseable value falls back to the Monday of the week containing
// today; a valid ISO date is returned as-is, not snapped to Monday.
// Parse errors are absorbed, never returned.
func ParseWeekStart(param string, today time.Time) time.Time {
	if param == "" {
		return StartOfWeek(today)
	}
	d, err := time.Parse(ISODate, param)
	if err != nil {
		return StartOfWeek(today)
	}
	return d
}
