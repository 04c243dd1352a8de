package growth

import (
	"testing"

	"github.com/iwvelando/growth-forecast/pkg/constants"
)

func TestComputeCostsWorkforce(t *testing.T) {
	ops := Operations{Workforce: []WorkforceMember{
		{Role: "guide", Count: 2, RatePerHour: 25, HoursPerWeek: 40},
		{Role: "admin", Count: 0.5, RatePerHour: 30, HoursPerWeek: 20},
	}}

	summary := ComputeCosts(ops)
	expected := (25*40*2 + 30*20*0.5) * constants.WeeksPerMonth
	assertClose(t, "workforce", summary.WorkforceMonthlyTotal, expected)
	assertClose(t, "operations total", summary.MonthlyOperationsTotal, expected)
}

func TestComputeCostsFixedDrivers(t *testing.T) {
	tests := []struct {
		name     string
		item     CostItem
		expected float64
	}{
		{name: "monthly", item: CostItem{CostType: CostTypeFixed, Rate: 500, DriverType: constants.DriverMonthly, DriverQuantityPerMonth: 2}, expected: 1000},
		{name: "quarterly", item: CostItem{CostType: CostTypeFixed, Rate: 900, DriverType: constants.DriverQuarterly, DriverQuantityPerMonth: 1}, expected: 300},
		{name: "yearly", item: CostItem{CostType: CostTypeFixed, Rate: 2400, DriverType: "Yearly", DriverQuantityPerMonth: 1}, expected: 200},
		{name: "unknown driver unscaled", item: CostItem{CostType: CostTypeFixed, Rate: 10, DriverType: "weekly", DriverQuantityPerMonth: 4}, expected: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := ComputeCosts(Operations{CostItems: []CostItem{tt.item}})
			assertClose(t, "fixed", summary.FixedMonthlyTotal, tt.expected)
			assertClose(t, "variable", summary.VariableMonthlyTotal, 0)
		})
	}
}

func TestComputeCostsVariable(t *testing.T) {
	ops := Operations{
		CapacityItems: []CapacityItem{
			{ID: "a", OfferingID: "tours", PlannedOutputPerMonth: 100},
			{ID: "b", OfferingID: "tastings", PlannedOutputPerMonth: 40},
		},
		CostItems: []CostItem{
			{CostType: CostTypeVariable, Rate: 2, DriverType: constants.DriverPerUnit},
			{CostType: CostTypeVariable, Rate: 50, DriverType: constants.DriverMonthly, DriverQuantityPerMonth: 3},
		},
		VariableComponents: []VariableComponent{
			{Name: "tickets", OfferingID: "tours", CostPerUnit: 1.5},
			{Name: "glasses", OfferingID: "tastings", CostPerUnit: 0.5, QuantityPerUnit: 4},
			{Name: "napkins", CostPerUnit: 0.1},
			{Name: "maps", OfferingID: "missing", CostPerUnit: 1},
		},
	}

	summary := ComputeCosts(ops)
	assertClose(t, "tickets", summary.VariableByComponent["tickets"], 150)
	assertClose(t, "glasses", summary.VariableByComponent["glasses"], 80)
	assertClose(t, "napkins", summary.VariableByComponent["napkins"], 14)
	assertClose(t, "maps", summary.VariableByComponent["maps"], 140)

	expected := 2*140.0 + 150 + 150 + 80 + 14 + 140
	assertClose(t, "variable total", summary.VariableMonthlyTotal, expected)
	assertClose(t, "operations total", summary.MonthlyOperationsTotal, expected)
}
