package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"mealplanner/internal/planner"
)

const icsProductID = "-//mealplanner//weekly-plan//EN"

// writePlanICS renders the weekly plan as an iCalendar file of all-day
// events, one per plan entry.
func writePlanICS(w http.ResponseWriter, start time.Time, plan []planner.PlanEntry) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=meal-plan_%s.ics", start.Format(planner.ISODate)))

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", icsProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:Meal plan week of %s\n", start.Format(planner.ISODate))
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	dtstamp := time.Now().UTC().Format("20060102T150405Z")
	for i, entry := range plan {
		day := start.AddDate(0, 0, i)

		summary := "No meal planned"
		var description string
		if entry.Meal != nil {
			summary = entry.Meal.Name
			if entry.Meal.Recipe != nil {
				description = fmt.Sprintf("Recipe: %s", entry.Meal.Recipe.Name)
			} else if entry.Meal.Notes != "" {
				description = entry.Meal.Notes
			}
		}

		// UID must be stable per day and week for calendar updates.
		uid := fmt.Sprintf("%s-day%d@mealplanner", start.Format("20060102"), i)

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s\n", uid)
		fmt.Fprintf(w, "DTSTAMP:%s\n", dtstamp)
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", day.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", day.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", escapeICS(summary))
		if description != "" {
			fmt.Fprintf(w, "DESCRIPTION:%s\n", escapeICS(description))
		}
		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

// escapeICS escapes the characters RFC 5545 requires escaping in text
// values.
func escapeICS(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}
