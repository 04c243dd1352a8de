package growth

// WorkforceMember is one workforce row.
type WorkforceMember struct {
	Role         string  `json:"role"`
	Count        float64 `json:"count"`
	RatePerHour  float64 `json:"ratePerHour"`
	HoursPerWeek float64 `json:"hoursPerWeek"`
}

// CostItem is one cost row. DriverType scales the rate: quarterly and yearly
// amounts are spread per month, perUnit variable items scale with output.
type CostItem struct {
	Category               string   `json:"category"`
	CostType               CostType `json:"costType"`
	Rate                   float64  `json:"rate"`
	DriverType             string   `json:"driverType"`
	DriverQuantityPerMonth float64  `json:"driverQuantityPerMonth"`
}

// CapacityItem is a production or service line.
type CapacityItem struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	OfferingID            string  `json:"offeringId,omitempty"`
	OutputUnitLabel       string  `json:"outputUnitLabel"`
	PlannedOutputPerMonth float64 `json:"plannedOutputPerMonth"`
	MaxOutputPerDay       float64 `json:"maxOutputPerDay"`
	MaxOutputPerWeek      float64 `json:"maxOutputPerWeek"`
	MaxOutputPerMonth     float64 `json:"maxOutputPerMonth"`
	UtilizationRate       float64 `json:"utilizationRate"`
}

// VariableComponent is a per-unit cost tied to an offering's output.
type VariableComponent struct {
	Name            string  `json:"name"`
	OfferingID      string  `json:"offeringId,omitempty"`
	CostPerUnit     float64 `json:"costPerUnit"`
	QuantityPerUnit float64 `json:"quantityPerUnit,omitempty"`
}

// Operations is the operating state the cost aggregator works on.
type Operations struct {
	Workforce          []WorkforceMember   `json:"workforce"`
	CapacityItems      []CapacityItem      `json:"capacityItems"`
	CostItems          []CostItem          `json:"costItems"`
	VariableComponents []VariableComponent `json:"variableComponents"`
}

// Clone returns a copy whose slices can be appended to or modified without
// touching the receiver.
func (o Operations) Clone() Operations {
	return Operations{
		Workforce:          append([]WorkforceMember(nil), o.Workforce...),
		CapacityItems:      append([]CapacityItem(nil), o.CapacityItems...),
		CostItems:          append([]CostItem(nil), o.CostItems...),
		VariableComponents: append([]VariableComponent(nil), o.VariableComponents...),
	}
}
