package growth

import (
	"math"

	"github.com/iwvelando/growth-forecast/pkg/constants"
)

// MonthlyCeiling returns the tightest of the item's day, week and month limits
// expressed per month. Zero means no limit was supplied, not zero capacity.
func MonthlyCeiling(item CapacityItem) float64 {
	ceiling := 0.0
	consider := func(limit float64) {
		if limit <= 0 {
			return
		}
		if ceiling == 0 || limit < ceiling {
			ceiling = limit
		}
	}
	consider(item.MaxOutputPerMonth)
	consider(item.MaxOutputPerWeek * constants.WeeksPerMonth)
	consider(item.MaxOutputPerDay * constants.DaysPerMonth)
	return ceiling
}

// TotalPlannedOutput sums planned output, ignoring negative values.
func TotalPlannedOutput(items []CapacityItem) float64 {
	total := 0.0
	for _, item := range items {
		total += math.Max(0, item.PlannedOutputPerMonth)
	}
	return total
}

// TotalCeiling sums the monthly ceilings of all items.
func TotalCeiling(items []CapacityItem) float64 {
	total := 0.0
	for _, item := range items {
		total += MonthlyCeiling(item)
	}
	return total
}

// WeightedUtilization returns the planned-output weighted utilization in
// percent. When no item carries a utilization rate the result is 100, which
// keeps configurations that predate utilization rates booking full output.
func WeightedUtilization(items []CapacityItem) float64 {
	numerator := 0.0
	weight := 0.0
	for _, item := range items {
		planned := math.Max(0, item.PlannedOutputPerMonth)
		numerator += item.UtilizationRate * planned
		weight += planned
	}
	if numerator == 0 || weight == 0 {
		return constants.PercentageMultiplier
	}
	return numerator / weight
}

// OutputByOffering sums planned output per offering id. Items without an
// offering are not included.
func OutputByOffering(items []CapacityItem) map[string]float64 {
	out := make(map[string]float64)
	for _, item := range items {
		if item.OfferingID == "" {
			continue
		}
		out[item.OfferingID] += math.Max(0, item.PlannedOutputPerMonth)
	}
	return out
}
