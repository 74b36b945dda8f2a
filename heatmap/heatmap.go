// Package heatmap lays out a contribution series as a calendar grid. The
// server pre-aggregates the per-day counts; this package does layout and
// label formatting only, and every date computation runs in UTC so a local
// timezone offset can never shift a contribution to the neighboring day.
package heatmap

import (
	"fmt"
	"time"

	gitden "github.com/gitden/gitden-go"
)

// dateLayout is the wire format of a contribution day.
const dateLayout = "2006-01-02"

// Cell is one day square of the grid.
type Cell struct {
	Date  time.Time // midnight UTC
	Count int
	// InRange is false for padding cells that align the first and last week.
	InRange bool
}

// Week is one grid column: Sunday through Saturday.
type Week [7]Cell

// Grid is the full calendar layout, oldest week first.
type Grid struct {
	Weeks []Week
	Total int // sum of all counts in range
}

// WeekLabels are the row labels, Sunday first, matching Week's indexing.
var WeekLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Layout builds the grid covering the span of points. Points outside the
// wire format are rejected; duplicate dates accumulate. An empty series
// yields an empty grid.
func Layout(points []gitden.ContributionPoint) (Grid, error) {
	if len(points) == 0 {
		return Grid{}, nil
	}

	counts := make(map[time.Time]int, len(points))
	var min, max time.Time
	total := 0
	for _, p := range points {
		d, err := time.ParseInLocation(dateLayout, p.Date, time.UTC)
		if err != nil {
			return Grid{}, fmt.Errorf("bad contribution date %q: %w", p.Date, err)
		}
		counts[d] += p.Count
		total += p.Count
		if min.IsZero() || d.Before(min) {
			min = d
		}
		if max.IsZero() || d.After(max) {
			max = d
		}
	}

	// Walk back to the Sunday on or before min so every column is a full
	// Sunday-to-Saturday week.
	start := min.AddDate(0, 0, -int(min.Weekday()))
	end := max.AddDate(0, 0, 6-int(max.Weekday()))

	var weeks []Week
	for day := start; !day.After(end); {
		var w Week
		for i := 0; i < 7; i++ {
			w[i] = Cell{
				Date:    day,
				Count:   counts[day],
				InRange: !day.Before(min) && !day.After(max),
			}
			day = day.AddDate(0, 0, 1)
		}
		weeks = append(weeks, w)
	}
	return Grid{Weeks: weeks, Total: total}, nil
}

// FormatDate renders a wire-format date as "Apr 5, 2025" using UTC
// accessors.
func FormatDate(date string) (string, error) {
	d, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return "", fmt.Errorf("bad date %q: %w", date, err)
	}
	return fmt.Sprintf("%s %d, %d", d.UTC().Month().String()[:3], d.UTC().Day(), d.UTC().Year()), nil
}

// Tooltip renders the hover label for one day, e.g. "3 contributions on
// Apr 5, 2025".
func Tooltip(p gitden.ContributionPoint) string {
	formatted, err := FormatDate(p.Date)
	if err != nil {
		return "No contributions"
	}
	noun := "contributions"
	if p.Count == 1 {
		noun = "contribution"
	}
	return fmt.Sprintf("%d %s on %s", p.Count, noun, formatted)
}
