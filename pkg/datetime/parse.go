// Package datetime maps simulated months onto calendar months.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/growth-forecast/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// CalendarLabel returns the calendar month of simulated month m for a timeline
// starting at startDate (month 1 == startDate).
func CalendarLabel(startDate string, m int) (string, error) {
	if m < 1 {
		return "", fmt.Errorf("month must be at least 1, got %d", m)
	}
	return OffsetDate(startDate, DateTimeLayout, m-1)
}

// CalendarLabels returns calendar labels for months 1..horizon.
func CalendarLabels(startDate string, horizon int) ([]string, error) {
	labels := make([]string, 0, max(horizon, 0))
	for m := 1; m <= horizon; m++ {
		label, err := CalendarLabel(startDate, m)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
		}
		labels = append(labels, label)
	}
	return labels, nil
}
