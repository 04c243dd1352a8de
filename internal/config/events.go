package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/growth-forecast/pkg/constants"
	"github.com/iwvelando/growth-forecast/pkg/growth"
)

// ErrUnknownEventType is returned for event type tags the engine does not know.
var ErrUnknownEventType = errors.New("unknown event type")

// Event type tags in their canonical spelling.
const (
	EventTypeHire              = "hire"
	EventTypeCostChange        = "costChange"
	EventTypeCapacityChange    = "capacityChange"
	EventTypeMarketingChange   = "marketingChange"
	EventTypeCustom            = "custom"
	EventTypeFundingRound      = "fundingRound"
	EventTypeFacilityBuild     = "facilityBuild"
	EventTypeHiringCampaign    = "hiringCampaign"
	EventTypePriceChange       = "priceChange"
	EventTypeEquipmentPurchase = "equipmentPurchase"
	EventTypeSeasonalCampaign  = "seasonalCampaign"
)

var eventTypes = map[string]string{
	"hire":              EventTypeHire,
	"costchange":        EventTypeCostChange,
	"capacitychange":    EventTypeCapacityChange,
	"marketingchange":   EventTypeMarketingChange,
	"custom":            EventTypeCustom,
	"fundinground":      EventTypeFundingRound,
	"facilitybuild":     EventTypeFacilityBuild,
	"hiringcampaign":    EventTypeHiringCampaign,
	"pricechange":       EventTypePriceChange,
	"equipmentpurchase": EventTypeEquipmentPurchase,
	"seasonalcampaign":  EventTypeSeasonalCampaign,
}

var customTargets = map[string]growth.CustomTarget{
	"revenue":      growth.TargetRevenue,
	"fixedcost":    growth.TargetFixedCost,
	"variablecost": growth.TargetVariableCost,
	"marketing":    growth.TargetMarketing,
}

// Event is a flat event record as written in configuration files. Only the
// fields that belong to Type are read.
type Event struct {
	ID             string `yaml:"id,omitempty" mapstructure:"id"`
	Month          int    `yaml:"month" mapstructure:"month" validate:"gte=1"`
	Label          string `yaml:"label,omitempty" mapstructure:"label"`
	Enabled        *bool  `yaml:"enabled,omitempty" mapstructure:"enabled"`
	DurationMonths *int   `yaml:"durationMonths,omitempty" mapstructure:"durationMonths" validate:"omitempty,gte=0"`
	Type           string `yaml:"type" mapstructure:"type" validate:"required"`

	// hire, hiringCampaign
	Role                  string   `yaml:"role,omitempty" mapstructure:"role"`
	Count                 float64  `yaml:"count,omitempty" mapstructure:"count" validate:"gte=0"`
	RatePerHour           float64  `yaml:"ratePerHour,omitempty" mapstructure:"ratePerHour"`
	HoursPerWeek          float64  `yaml:"hoursPerWeek,omitempty" mapstructure:"hoursPerWeek" validate:"gte=0"`
	CapacityPerHire       *float64 `yaml:"capacityPerHire,omitempty" mapstructure:"capacityPerHire"`
	TotalHires            int      `yaml:"totalHires,omitempty" mapstructure:"totalHires" validate:"gte=0"`
	RecruitingCostPerHire float64  `yaml:"recruitingCostPerHire,omitempty" mapstructure:"recruitingCostPerHire"`

	// costChange
	Category               string  `yaml:"category,omitempty" mapstructure:"category"`
	CostType               string  `yaml:"costType,omitempty" mapstructure:"costType"`
	Rate                   float64 `yaml:"rate,omitempty" mapstructure:"rate"`
	DriverType             string  `yaml:"driverType,omitempty" mapstructure:"driverType"`
	DriverQuantityPerMonth float64 `yaml:"driverQuantityPerMonth,omitempty" mapstructure:"driverQuantityPerMonth"`

	// capacityChange, facilityBuild, equipmentPurchase
	CapacityItemID string  `yaml:"capacityItemId,omitempty" mapstructure:"capacityItemId"`
	OutputDelta    float64 `yaml:"outputDelta,omitempty" mapstructure:"outputDelta"`

	// marketingChange
	MonthlyBudget float64 `yaml:"monthlyBudget,omitempty" mapstructure:"monthlyBudget"`

	// custom
	Value   float64 `yaml:"value,omitempty" mapstructure:"value"`
	Target  string  `yaml:"target,omitempty" mapstructure:"target"`
	Formula string  `yaml:"formula,omitempty" mapstructure:"formula"`

	// fundingRound
	Amount         float64 `yaml:"amount,omitempty" mapstructure:"amount"`
	LegalCosts     float64 `yaml:"legalCosts,omitempty" mapstructure:"legalCosts"`
	InvestmentType string  `yaml:"investmentType,omitempty" mapstructure:"investmentType"`

	// facilityBuild
	ConstructionCost float64 `yaml:"constructionCost,omitempty" mapstructure:"constructionCost"`
	MonthlyRent      float64 `yaml:"monthlyRent,omitempty" mapstructure:"monthlyRent"`
	CapacityAdded    float64 `yaml:"capacityAdded,omitempty" mapstructure:"capacityAdded"`

	// priceChange
	NewPricePerUnit *float64 `yaml:"newPricePerUnit,omitempty" mapstructure:"newPricePerUnit"`
	NewAvgCheck     *float64 `yaml:"newAvgCheck,omitempty" mapstructure:"newAvgCheck"`

	// equipmentPurchase
	PurchaseCost           float64 `yaml:"purchaseCost,omitempty" mapstructure:"purchaseCost"`
	CapacityIncrease       float64 `yaml:"capacityIncrease,omitempty" mapstructure:"capacityIncrease"`
	MaintenanceCostMonthly float64 `yaml:"maintenanceCostMonthly,omitempty" mapstructure:"maintenanceCostMonthly"`

	// seasonalCampaign
	BudgetIncrease float64 `yaml:"budgetIncrease,omitempty" mapstructure:"budgetIncrease"`
}

// CanonicalEventType returns the canonical tag for an event type, accepting
// camelCase, snake_case, kebab-case and spaced spellings. Unknown values are
// returned trimmed.
func CanonicalEventType(value string) string {
	trimmed := strings.TrimSpace(value)
	if canonical, ok := eventTypes[squash(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// CanonicalCustomTarget returns the canonical custom target and whether it is known.
func CanonicalCustomTarget(value string) (growth.CustomTarget, bool) {
	target, ok := customTargets[squash(value)]
	return target, ok
}

func squash(value string) string {
	replacer := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}

// Normalize assigns a generated id when missing, defaults enabled to true and
// canonicalizes the type tag.
func (e *Event) Normalize() {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	if e.Enabled == nil {
		enabled := true
		e.Enabled = &enabled
	}
	e.Type = CanonicalEventType(e.Type)
	e.CostType = strings.ToLower(strings.TrimSpace(e.CostType))
}

// IsEnabled reports whether the event is enabled; unset means enabled.
func (e Event) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// DisplayName returns the label, falling back to the id.
func (e Event) DisplayName() string {
	if strings.TrimSpace(e.Label) != "" {
		return e.Label
	}
	return e.ID
}

// ToGrowthEvent converts the flat record into an engine event.
func (e Event) ToGrowthEvent() (growth.Event, error) {
	out := growth.Event{
		ID:             e.ID,
		Month:          e.Month,
		Label:          e.Label,
		Enabled:        e.IsEnabled(),
		DurationMonths: e.DurationMonths,
	}

	switch CanonicalEventType(e.Type) {
	case EventTypeHire:
		out.Delta = growth.Hire{
			Role:            e.Role,
			Count:           e.Count,
			RatePerHour:     e.RatePerHour,
			HoursPerWeek:    e.HoursPerWeek,
			CapacityPerHire: e.CapacityPerHire,
		}
	case EventTypeCostChange:
		costType, err := parseCostType(e.CostType)
		if err != nil {
			return out, fmt.Errorf("event %s: %w", e.DisplayName(), err)
		}
		out.Delta = growth.CostChange{
			Category:               e.Category,
			CostType:               costType,
			Rate:                   e.Rate,
			DriverType:             defaultDriverType(e.DriverType),
			DriverQuantityPerMonth: e.DriverQuantityPerMonth,
		}
	case EventTypeCapacityChange:
		out.Delta = growth.CapacityChange{CapacityItemID: e.CapacityItemID, OutputDelta: e.OutputDelta}
	case EventTypeMarketingChange:
		out.Delta = growth.MarketingChange{MonthlyBudget: e.MonthlyBudget}
	case EventTypeCustom:
		target, ok := CanonicalCustomTarget(e.Target)
		if !ok {
			return out, fmt.Errorf("event %s: unsupported custom target %q", e.DisplayName(), e.Target)
		}
		out.Delta = growth.Custom{Label: e.Label, Value: e.Value, Target: target, Formula: e.Formula}
	case EventTypeFundingRound:
		out.Delta = growth.FundingRound{Amount: e.Amount, LegalCosts: e.LegalCosts, InvestmentType: e.InvestmentType}
	case EventTypeFacilityBuild:
		out.Delta = growth.FacilityBuild{
			ConstructionCost: e.ConstructionCost,
			MonthlyRent:      e.MonthlyRent,
			CapacityAdded:    e.CapacityAdded,
			CapacityItemID:   e.CapacityItemID,
		}
	case EventTypeHiringCampaign:
		out.Delta = growth.HiringCampaign{
			TotalHires:            e.TotalHires,
			Role:                  e.Role,
			RatePerHour:           e.RatePerHour,
			HoursPerWeek:          e.HoursPerWeek,
			RecruitingCostPerHire: e.RecruitingCostPerHire,
			CapacityPerHire:       e.CapacityPerHire,
		}
	case EventTypePriceChange:
		out.Delta = growth.PriceChange{NewPricePerUnit: e.NewPricePerUnit, NewAvgCheck: e.NewAvgCheck}
	case EventTypeEquipmentPurchase:
		out.Delta = growth.EquipmentPurchase{
			PurchaseCost:           e.PurchaseCost,
			CapacityIncrease:       e.CapacityIncrease,
			MaintenanceCostMonthly: e.MaintenanceCostMonthly,
			CapacityItemID:         e.CapacityItemID,
		}
	case EventTypeSeasonalCampaign:
		out.Delta = growth.SeasonalCampaign{BudgetIncrease: e.BudgetIncrease}
	default:
		return out, fmt.Errorf("event %s: %w %q", e.DisplayName(), ErrUnknownEventType, e.Type)
	}

	return out, nil
}

func parseCostType(value string) (growth.CostType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(growth.CostTypeFixed):
		return growth.CostTypeFixed, nil
	case string(growth.CostTypeVariable):
		return growth.CostTypeVariable, nil
	default:
		return "", fmt.Errorf("unsupported cost type %q", value)
	}
}

// defaultDriverType fills an empty driver type with the monthly driver.
func defaultDriverType(value string) string {
	if strings.TrimSpace(value) == "" {
		return constants.DriverMonthly
	}
	return value
}
