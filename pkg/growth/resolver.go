package growth

import "math"

// MonthState is the effective operating state for one month together with the
// additive and one-time amounts the events contributed. It is derived from
// scratch for every month.
type MonthState struct {
	Month           int
	Operations      Operations
	MarketingBudget float64
	UnitPrice       float64

	CustomRevenueDelta      float64
	CustomFixedCostDelta    float64
	CustomVariableCostDelta float64
	CustomMarketingDelta    float64
	StandaloneCapacityDelta float64

	OneTimeNonOperatingCashFlow float64
	OneTimeFixedCost            float64
}

// BaseState is the starting point every month is resolved from.
type BaseState struct {
	Operations      Operations
	MarketingBudget float64
	UnitPrice       float64
}

// ResolveMonth folds every enabled event that has started by month m onto the
// base state. The base state and events are left untouched.
func ResolveMonth(base BaseState, events []Event, m int) MonthState {
	r := &resolver{
		m: m,
		state: MonthState{
			Month:           m,
			Operations:      base.Operations.Clone(),
			MarketingBudget: base.MarketingBudget,
			UnitPrice:       base.UnitPrice,
		},
	}
	r.indexItems()
	for _, e := range events {
		if !e.appliesTo(m) {
			continue
		}
		Dispatch(e, r)
	}
	return r.state
}

type resolver struct {
	m     int
	state MonthState
	byID  map[string]int
}

func (r *resolver) indexItems() {
	r.byID = make(map[string]int, len(r.state.Operations.CapacityItems))
	for i, item := range r.state.Operations.CapacityItems {
		if item.ID == "" {
			continue
		}
		if _, dup := r.byID[item.ID]; !dup {
			r.byID[item.ID] = i
		}
	}
}

// addCapacity applies delta to the item with targetID, or to every item when
// no target is given, or to the standalone delta when there are no items. An
// unknown target changes nothing.
func (r *resolver) addCapacity(targetID string, delta float64) {
	items := r.state.Operations.CapacityItems
	if len(items) == 0 {
		r.state.StandaloneCapacityDelta += delta
		return
	}
	if targetID != "" {
		if i, ok := r.byID[targetID]; ok {
			items[i].PlannedOutputPerMonth += delta
		}
		return
	}
	for i := range items {
		items[i].PlannedOutputPerMonth += delta
	}
}

// addCapacityFirst applies delta to the first item, or to the standalone delta
// when there are no items.
func (r *resolver) addCapacityFirst(delta float64) {
	items := r.state.Operations.CapacityItems
	if len(items) == 0 {
		r.state.StandaloneCapacityDelta += delta
		return
	}
	items[0].PlannedOutputPerMonth += delta
}

func (r *resolver) VisitHire(_ Event, d Hire) {
	r.state.Operations.Workforce = append(r.state.Operations.Workforce, WorkforceMember{
		Role:         d.Role,
		Count:        d.Count,
		RatePerHour:  d.RatePerHour,
		HoursPerWeek: d.HoursPerWeek,
	})
	if d.CapacityPerHire != nil && *d.CapacityPerHire != 0 {
		r.addCapacityFirst(*d.CapacityPerHire * d.Count)
	}
}

func (r *resolver) VisitCostChange(_ Event, d CostChange) {
	r.state.Operations.CostItems = append(r.state.Operations.CostItems, CostItem{
		Category:               d.Category,
		CostType:               d.CostType,
		Rate:                   d.Rate,
		DriverType:             d.DriverType,
		DriverQuantityPerMonth: d.DriverQuantityPerMonth,
	})
}

func (r *resolver) VisitCapacityChange(_ Event, d CapacityChange) {
	r.addCapacity(d.CapacityItemID, d.OutputDelta)
}

func (r *resolver) VisitMarketingChange(_ Event, d MarketingChange) {
	r.state.MarketingBudget = d.MonthlyBudget
}

func (r *resolver) VisitCustom(_ Event, d Custom) {
	switch d.Target {
	case TargetRevenue:
		r.state.CustomRevenueDelta += d.Value
	case TargetFixedCost:
		r.state.CustomFixedCostDelta += d.Value
	case TargetVariableCost:
		r.state.CustomVariableCostDelta += d.Value
	case TargetMarketing:
		r.state.CustomMarketingDelta += d.Value
	}
}

func (r *resolver) VisitFundingRound(e Event, d FundingRound) {
	if e.Month != r.m {
		return
	}
	r.state.OneTimeNonOperatingCashFlow += d.Amount
	r.state.OneTimeFixedCost += d.LegalCosts
}

func (r *resolver) VisitFacilityBuild(e Event, d FacilityBuild) {
	duration := e.Duration()
	completion := e.Month + duration
	if r.m < completion {
		r.state.OneTimeFixedCost += d.ConstructionCost / float64(duration)
		return
	}
	r.state.CustomFixedCostDelta += d.MonthlyRent
	if d.CapacityAdded != 0 {
		r.addCapacity(d.CapacityItemID, d.CapacityAdded)
	}
}

func (r *resolver) VisitHiringCampaign(e Event, d HiringCampaign) {
	hired := CumulativeHires(e.Month, e.Duration(), d.TotalHires, r.m)
	previous := CumulativeHires(e.Month, e.Duration(), d.TotalHires, r.m-1)
	if added := hired - previous; added > 0 {
		r.state.OneTimeFixedCost += float64(added) * d.RecruitingCostPerHire
	}
	if hired <= 0 {
		return
	}
	r.state.Operations.Workforce = append(r.state.Operations.Workforce, WorkforceMember{
		Role:         d.Role,
		Count:        float64(hired),
		RatePerHour:  d.RatePerHour,
		HoursPerWeek: d.HoursPerWeek,
	})
	if d.CapacityPerHire != nil && *d.CapacityPerHire != 0 {
		r.addCapacity("", *d.CapacityPerHire*float64(hired))
	}
}

func (r *resolver) VisitPriceChange(_ Event, d PriceChange) {
	if price, ok := d.Price(); ok {
		r.state.UnitPrice = price
	}
}

func (r *resolver) VisitEquipmentPurchase(e Event, d EquipmentPurchase) {
	if e.Month == r.m {
		r.state.OneTimeFixedCost += d.PurchaseCost
	}
	r.state.CustomFixedCostDelta += d.MaintenanceCostMonthly
	if d.CapacityIncrease != 0 {
		r.addCapacity(d.CapacityItemID, d.CapacityIncrease)
	}
}

func (r *resolver) VisitSeasonalCampaign(e Event, d SeasonalCampaign) {
	if r.m > e.Month+e.Duration()-1 {
		return
	}
	r.state.CustomMarketingDelta += d.BudgetIncrease
}

// CumulativeHires returns how many of totalHires a campaign starting at start
// and lasting duration months has made by month m.
func CumulativeHires(start, duration, totalHires, m int) int {
	if totalHires <= 0 || m < start {
		return 0
	}
	if duration < 1 {
		duration = 1
	}
	if m >= start+duration {
		return totalHires
	}
	elapsed := m - start + 1
	hired := int(math.Floor(float64(totalHires) * float64(elapsed) / float64(duration)))
	if hired > totalHires {
		return totalHires
	}
	return hired
}
