package growth

import (
	"strings"

	"github.com/iwvelando/growth-forecast/pkg/constants"
)

// CostSummary holds the monthly cost totals for an operating state.
type CostSummary struct {
	WorkforceMonthlyTotal  float64            `json:"workforceMonthlyTotal"`
	VariableMonthlyTotal   float64            `json:"variableMonthlyTotal"`
	FixedMonthlyTotal      float64            `json:"fixedMonthlyTotal"`
	MonthlyOperationsTotal float64            `json:"monthlyOperationsTotal"`
	VariableByComponent    map[string]float64 `json:"variableByComponent,omitempty"`
}

// ComputeCosts aggregates workforce, fixed and variable monthly costs.
func ComputeCosts(ops Operations) CostSummary {
	var summary CostSummary

	for _, member := range ops.Workforce {
		summary.WorkforceMonthlyTotal += member.RatePerHour * member.HoursPerWeek * member.Count * constants.WeeksPerMonth
	}

	totalOutput := TotalPlannedOutput(ops.CapacityItems)
	for _, item := range ops.CostItems {
		switch item.CostType {
		case CostTypeFixed:
			summary.FixedMonthlyTotal += scaledMonthlyAmount(item)
		case CostTypeVariable:
			if isPerUnitDriver(item.DriverType) {
				summary.VariableMonthlyTotal += item.Rate * totalOutput
			} else {
				summary.VariableMonthlyTotal += scaledMonthlyAmount(item)
			}
		}
	}

	if len(ops.VariableComponents) > 0 {
		byOffering := OutputByOffering(ops.CapacityItems)
		summary.VariableByComponent = make(map[string]float64, len(ops.VariableComponents))
		for _, component := range ops.VariableComponents {
			output, ok := byOffering[component.OfferingID]
			if component.OfferingID == "" || !ok {
				output = totalOutput
			}
			quantity := component.QuantityPerUnit
			if quantity == 0 {
				quantity = 1
			}
			cost := component.CostPerUnit * quantity * output
			summary.VariableByComponent[component.Name] += cost
			summary.VariableMonthlyTotal += cost
		}
	}

	summary.MonthlyOperationsTotal = summary.VariableMonthlyTotal + summary.FixedMonthlyTotal + summary.WorkforceMonthlyTotal
	return summary
}

func scaledMonthlyAmount(item CostItem) float64 {
	amount := item.Rate * item.DriverQuantityPerMonth
	switch strings.ToLower(item.DriverType) {
	case constants.DriverQuarterly:
		return amount / constants.MonthsPerQuarter
	case constants.DriverYearly:
		return amount / constants.MonthsPerYear
	default:
		return amount
	}
}

func isPerUnitDriver(driverType string) bool {
	switch strings.ToLower(driverType) {
	case "perunit", "per_unit", "per-unit":
		return true
	}
	return false
}
