package growth

import "fmt"

// ProjectionCosts is the cost breakdown of the generic projection format.
// Museum and Transport belong to that format and are always zero here.
type ProjectionCosts struct {
	Marketing float64 `json:"marketing"`
	Labor     float64 `json:"labor"`
	Supplies  float64 `json:"supplies"`
	Museum    float64 `json:"museum"`
	Transport float64 `json:"transport"`
	Fixed     float64 `json:"fixed"`
}

// ProjectionRecord is one month in the generic financial projection format.
type ProjectionRecord struct {
	Month                string          `json:"month"`
	Revenue              float64         `json:"revenue"`
	Costs                ProjectionCosts `json:"costs"`
	Profit               float64         `json:"profit"`
	NonOperatingCashFlow float64         `json:"nonOperatingCashFlow"`
}

// MonthLabel is the projection label for month m.
func MonthLabel(m int) string {
	return fmt.Sprintf("Month %d", m)
}

// ToProjection maps a snapshot to a projection record.
func ToProjection(s MonthlySnapshot, nonOperatingCashFlow float64) ProjectionRecord {
	return ProjectionRecord{
		Month:   MonthLabel(s.Month),
		Revenue: s.Revenue,
		Costs: ProjectionCosts{
			Marketing: s.MarketingCost,
			Labor:     s.WorkforceCost,
			Supplies:  s.VariableCost,
			Fixed:     s.FixedCost,
		},
		Profit:               s.Profit,
		NonOperatingCashFlow: nonOperatingCashFlow,
	}
}
