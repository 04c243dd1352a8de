// Package config defines conversion utilities for configuration objects.
package config

import (
	"fmt"

	"github.com/iwvelando/growth-forecast/pkg/growth"
)

// ToGrowthOperations converts the configured operations into the engine's
// operating state.
func (ops Operations) ToGrowthOperations() growth.Operations {
	var out growth.Operations

	for _, member := range ops.Workforce {
		out.Workforce = append(out.Workforce, growth.WorkforceMember{
			Role:         member.Role,
			Count:        member.Count,
			RatePerHour:  member.RatePerHour,
			HoursPerWeek: member.HoursPerWeek,
		})
	}

	for _, item := range ops.CapacityItems {
		out.CapacityItems = append(out.CapacityItems, growth.CapacityItem{
			ID:                    item.ID,
			Name:                  item.Name,
			OfferingID:            item.OfferingID,
			OutputUnitLabel:       item.OutputUnitLabel,
			PlannedOutputPerMonth: item.PlannedOutputPerMonth,
			MaxOutputPerDay:       item.MaxOutputPerDay,
			MaxOutputPerWeek:      item.MaxOutputPerWeek,
			MaxOutputPerMonth:     item.MaxOutputPerMonth,
			UtilizationRate:       item.UtilizationRate,
		})
	}

	for _, item := range ops.CostItems {
		costType := growth.CostTypeFixed
		if item.CostType == string(growth.CostTypeVariable) {
			costType = growth.CostTypeVariable
		}
		out.CostItems = append(out.CostItems, growth.CostItem{
			Category:               item.Category,
			CostType:               costType,
			Rate:                   item.Rate,
			DriverType:             defaultDriverType(item.DriverType),
			DriverQuantityPerMonth: item.DriverQuantityPerMonth,
		})
	}

	for _, component := range ops.VariableComponents {
		out.VariableComponents = append(out.VariableComponents, growth.VariableComponent{
			Name:            component.Name,
			OfferingID:      component.OfferingID,
			CostPerUnit:     component.CostPerUnit,
			QuantityPerUnit: component.QuantityPerUnit,
		})
	}

	return out
}

// GrowthEvents converts every event of the scenario, preserving order.
func (s Scenario) GrowthEvents() ([]growth.Event, error) {
	events := make([]growth.Event, 0, len(s.Events))
	for _, event := range s.Events {
		converted, err := event.ToGrowthEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, converted)
	}
	return events, nil
}

// GrowthInput builds the engine input for one scenario.
func (c *Configuration) GrowthInput(s Scenario) (growth.Input, error) {
	events, err := s.GrowthEvents()
	if err != nil {
		return growth.Input{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return growth.Input{
		Operations:          c.Business.Operations.ToGrowthOperations(),
		BasePricePerUnit:    c.BaseValue(s, OptimizerFieldBasePrice),
		BaseBookings:        c.BaseValue(s, OptimizerFieldBaseBookings),
		BaseMarketingBudget: c.BaseValue(s, OptimizerFieldMarketing),
		SeasonCoefficients:  append([]float64(nil), c.Business.SeasonCoefficients...),
		HorizonMonths:       c.Business.HorizonMonths,
		Events:              events,
	}, nil
}

// BaseValue returns the base value of field for the scenario, honoring its
// overrides. Unknown fields return 0.
func (c *Configuration) BaseValue(s Scenario, field string) float64 {
	switch field {
	case OptimizerFieldBasePrice:
		if s.Overrides.BasePricePerUnit != nil {
			return *s.Overrides.BasePricePerUnit
		}
		return c.Business.BasePricePerUnit
	case OptimizerFieldBaseBookings:
		if s.Overrides.BaseBookings != nil {
			return *s.Overrides.BaseBookings
		}
		return c.Business.BaseBookings
	case OptimizerFieldMarketing:
		if s.Overrides.BaseMarketingBudget != nil {
			return *s.Overrides.BaseMarketingBudget
		}
		return c.Business.BaseMarketingBudget
	default:
		return 0
	}
}

// SetOverride stores value as the scenario's override for field.
func (s *Scenario) SetOverride(field string, value float64) error {
	switch field {
	case OptimizerFieldBasePrice:
		s.Overrides.BasePricePerUnit = &value
	case OptimizerFieldBaseBookings:
		s.Overrides.BaseBookings = &value
	case OptimizerFieldMarketing:
		s.Overrides.BaseMarketingBudget = &value
	default:
		return fmt.Errorf("field %q cannot be overridden", field)
	}
	return nil
}
