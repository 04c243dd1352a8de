// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/growth-forecast/pkg/constants"
)

// ValidateEventMonth checks that an event starts inside the horizon.
func ValidateEventMonth(eventName string, month, horizonMonths int) string {
	if month > horizonMonths {
		return fmt.Sprintf("Event '%s' starts after the horizon (month %d > %d) and has no effect",
			eventName, month, horizonMonths)
	}
	return ""
}

// ValidateCapacityTarget checks that a targeted capacity item exists.
func ValidateCapacityTarget(eventName, capacityItemID string, knownIDs map[string]struct{}) string {
	if capacityItemID == "" {
		return ""
	}
	if _, ok := knownIDs[capacityItemID]; !ok {
		return fmt.Sprintf("Event '%s' targets unknown capacity item '%s' and will not change capacity",
			eventName, capacityItemID)
	}
	return ""
}

// ValidateSeasonLength warns when seasonality does not cover a calendar year.
func ValidateSeasonLength(length int) string {
	if length != 0 && length != constants.MonthsPerYear {
		return fmt.Sprintf("Season coefficients have %d entries; they cycle every %d months instead of yearly",
			length, length)
	}
	return ""
}

// ConfigValidator collects warnings for a whole configuration.
type ConfigValidator struct {
	HorizonMonths   int
	SeasonLength    int
	CapacityItemIDs []string
	Scenarios       []ScenarioConfig
}

// ScenarioConfig is the part of a scenario the validator inspects.
type ScenarioConfig struct {
	Name   string
	Active bool
	Events []EventConfig
}

// EventConfig is the part of an event the validator inspects.
type EventConfig struct {
	Name           string
	Month          int
	Enabled        bool
	CapacityItemID string
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if warning := ValidateSeasonLength(cv.SeasonLength); warning != "" {
		warnings = append(warnings, warning)
	}

	known := make(map[string]struct{}, len(cv.CapacityItemIDs))
	for _, id := range cv.CapacityItemIDs {
		known[id] = struct{}{}
	}

	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		for _, event := range scenario.Events {
			name := scenario.Name + "/" + event.Name
			if !event.Enabled {
				warnings = append(warnings, fmt.Sprintf("Event '%s' is disabled and has no effect", name))
				continue
			}
			if warning := ValidateEventMonth(name, event.Month, cv.HorizonMonths); warning != "" {
				warnings = append(warnings, warning)
			}
			if warning := ValidateCapacityTarget(name, event.CapacityItemID, known); warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}

	return warnings
}
