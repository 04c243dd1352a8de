// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/growth-forecast/internal/forecast"
	"github.com/iwvelando/growth-forecast/pkg/growth"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindScenario(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// Snapshot returns the snapshot of month m (1-based) and whether it exists.
func Snapshot(result *forecast.Forecast, m int) (growth.MonthlySnapshot, bool) {
	if result == nil || m < 1 || m > len(result.Result.Months) {
		return growth.MonthlySnapshot{}, false
	}
	return result.Result.Months[m-1], true
}
