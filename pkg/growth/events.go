// Package growth implements the month-by-month growth timeline engine: it folds
// a list of timed events onto a base operating state and produces revenue,
// cost and profit trajectories plus a break-even month.
package growth

// Event is a timed modification to the base operating state. Events are never
// mutated by the engine.
type Event struct {
	ID             string     `json:"id"`
	Month          int        `json:"month"`
	Label          string     `json:"label"`
	Enabled        bool       `json:"enabled"`
	DurationMonths *int       `json:"durationMonths,omitempty"`
	Delta          EventDelta `json:"-"`
}

// Duration returns the event duration in months, defaulting to 1.
func (e Event) Duration() int {
	if e.DurationMonths == nil || *e.DurationMonths < 1 {
		return 1
	}
	return *e.DurationMonths
}

// appliesTo reports whether the event has started by month m.
func (e Event) appliesTo(m int) bool {
	return e.Enabled && e.Delta != nil && e.Month <= m
}

// CostType distinguishes variable from fixed cost items.
type CostType string

const (
	CostTypeVariable CostType = "variable"
	CostTypeFixed    CostType = "fixed"
)

// CustomTarget routes a custom event value to one of the additive accumulators.
type CustomTarget string

const (
	TargetRevenue      CustomTarget = "revenue"
	TargetFixedCost    CustomTarget = "fixedCost"
	TargetVariableCost CustomTarget = "variableCost"
	TargetMarketing    CustomTarget = "marketing"
)

// EventDelta is the closed set of event effects. Every implementation lives in
// this package; dispatch goes through DeltaVisitor so that adding a kind fails
// to compile until every visitor handles it.
type EventDelta interface {
	Kind() string
	accept(e Event, v DeltaVisitor)
}

// DeltaVisitor handles each event kind. The Event passed alongside carries the
// timing fields.
type DeltaVisitor interface {
	VisitHire(e Event, d Hire)
	VisitCostChange(e Event, d CostChange)
	VisitCapacityChange(e Event, d CapacityChange)
	VisitMarketingChange(e Event, d MarketingChange)
	VisitCustom(e Event, d Custom)
	VisitFundingRound(e Event, d FundingRound)
	VisitFacilityBuild(e Event, d FacilityBuild)
	VisitHiringCampaign(e Event, d HiringCampaign)
	VisitPriceChange(e Event, d PriceChange)
	VisitEquipmentPurchase(e Event, d EquipmentPurchase)
	VisitSeasonalCampaign(e Event, d SeasonalCampaign)
}

// Hire adds a workforce row from the event month onward.
type Hire struct {
	Role            string   `json:"role"`
	Count           float64  `json:"count"`
	RatePerHour     float64  `json:"ratePerHour"`
	HoursPerWeek    float64  `json:"hoursPerWeek"`
	CapacityPerHire *float64 `json:"capacityPerHire,omitempty"`
}

// CostChange adds a cost item row from the event month onward.
type CostChange struct {
	Category               string   `json:"category"`
	CostType               CostType `json:"costType"`
	Rate                   float64  `json:"rate"`
	DriverType             string   `json:"driverType"`
	DriverQuantityPerMonth float64  `json:"driverQuantityPerMonth"`
}

// CapacityChange shifts planned output from the event month onward.
type CapacityChange struct {
	CapacityItemID string  `json:"capacityItemId,omitempty"`
	OutputDelta    float64 `json:"outputDelta"`
}

// MarketingChange replaces the marketing budget from the event month onward.
type MarketingChange struct {
	MonthlyBudget float64 `json:"monthlyBudget"`
}

// Custom adds Value to the accumulator named by Target. Formula is carried for
// display only.
type Custom struct {
	Label   string       `json:"label"`
	Value   float64      `json:"value"`
	Target  CustomTarget `json:"target"`
	Formula string       `json:"formula,omitempty"`
}

// FundingRound is a one-time cash inflow with legal costs in the event month.
type FundingRound struct {
	Amount         float64 `json:"amount"`
	LegalCosts     float64 `json:"legalCosts"`
	InvestmentType string  `json:"investmentType"`
}

// FacilityBuild spreads construction cost over its duration, then adds rent
// and capacity permanently.
type FacilityBuild struct {
	ConstructionCost float64 `json:"constructionCost"`
	MonthlyRent      float64 `json:"monthlyRent"`
	CapacityAdded    float64 `json:"capacityAdded"`
	CapacityItemID   string  `json:"capacityItemId,omitempty"`
}

// HiringCampaign ramps hires linearly across its duration.
type HiringCampaign struct {
	TotalHires            int      `json:"totalHires"`
	Role                  string   `json:"role"`
	RatePerHour           float64  `json:"ratePerHour"`
	HoursPerWeek          float64  `json:"hoursPerWeek"`
	RecruitingCostPerHire float64  `json:"recruitingCostPerHire"`
	CapacityPerHire       *float64 `json:"capacityPerHire,omitempty"`
}

// PriceChange overrides the unit price from the event month onward.
// NewAvgCheck is the legacy spelling and is used only when NewPricePerUnit is nil.
type PriceChange struct {
	NewPricePerUnit *float64 `json:"newPricePerUnit,omitempty"`
	NewAvgCheck     *float64 `json:"newAvgCheck,omitempty"`
}

// Price returns the override price and whether one was supplied.
func (d PriceChange) Price() (float64, bool) {
	if d.NewPricePerUnit != nil {
		return *d.NewPricePerUnit, true
	}
	if d.NewAvgCheck != nil {
		return *d.NewAvgCheck, true
	}
	return 0, false
}

// EquipmentPurchase charges the purchase once, then adds maintenance and
// capacity from the event month onward.
type EquipmentPurchase struct {
	PurchaseCost           float64 `json:"purchaseCost"`
	CapacityIncrease       float64 `json:"capacityIncrease"`
	MaintenanceCostMonthly float64 `json:"maintenanceCostMonthly"`
	CapacityItemID         string  `json:"capacityItemId,omitempty"`
}

// SeasonalCampaign adds marketing spend only inside its window.
type SeasonalCampaign struct {
	BudgetIncrease float64 `json:"budgetIncrease"`
}

func (Hire) Kind() string              { return "hire" }
func (CostChange) Kind() string        { return "costChange" }
func (CapacityChange) Kind() string    { return "capacityChange" }
func (MarketingChange) Kind() string   { return "marketingChange" }
func (Custom) Kind() string            { return "custom" }
func (FundingRound) Kind() string      { return "fundingRound" }
func (FacilityBuild) Kind() string     { return "facilityBuild" }
func (HiringCampaign) Kind() string    { return "hiringCampaign" }
func (PriceChange) Kind() string       { return "priceChange" }
func (EquipmentPurchase) Kind() string { return "equipmentPurchase" }
func (SeasonalCampaign) Kind() string  { return "seasonalCampaign" }

func (d Hire) accept(e Event, v DeltaVisitor)              { v.VisitHire(e, d) }
func (d CostChange) accept(e Event, v DeltaVisitor)        { v.VisitCostChange(e, d) }
func (d CapacityChange) accept(e Event, v DeltaVisitor)    { v.VisitCapacityChange(e, d) }
func (d MarketingChange) accept(e Event, v DeltaVisitor)   { v.VisitMarketingChange(e, d) }
func (d Custom) accept(e Event, v DeltaVisitor)            { v.VisitCustom(e, d) }
func (d FundingRound) accept(e Event, v DeltaVisitor)      { v.VisitFundingRound(e, d) }
func (d FacilityBuild) accept(e Event, v DeltaVisitor)     { v.VisitFacilityBuild(e, d) }
func (d HiringCampaign) accept(e Event, v DeltaVisitor)    { v.VisitHiringCampaign(e, d) }
func (d PriceChange) accept(e Event, v DeltaVisitor)       { v.VisitPriceChange(e, d) }
func (d EquipmentPurchase) accept(e Event, v DeltaVisitor) { v.VisitEquipmentPurchase(e, d) }
func (d SeasonalCampaign) accept(e Event, v DeltaVisitor)  { v.VisitSeasonalCampaign(e, d) }

// Dispatch calls the visitor method matching the event's delta. Events without
// a delta are ignored.
func Dispatch(e Event, v DeltaVisitor) {
	if e.Delta == nil {
		return
	}
	e.Delta.accept(e, v)
}
