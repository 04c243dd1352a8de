package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/growth-forecast/pkg/constants"
)

const (
	OptimizerFieldBasePrice     = "basePricePerUnit"
	OptimizerFieldBaseBookings  = "baseBookings"
	OptimizerFieldMarketing     = "baseMarketingBudget"
	OptimizerKindBreakEven      = "break_even"
	defaultToleranceAmount      = constants.CurrencyTolerance
	defaultMaxIterations        = 50
	defaultTargetBreakEvenMonth = 12
)

// OptimizerConfig defines a single-parameter optimization directive: find the
// value of Field within [Min, Max] that reaches break-even by
// TargetBreakEvenMonth.
type OptimizerConfig struct {
	Field                string   `yaml:"field,omitempty" mapstructure:"field"`
	Kind                 string   `yaml:"kind,omitempty" mapstructure:"kind"`
	TargetBreakEvenMonth int      `yaml:"targetBreakEvenMonth,omitempty" mapstructure:"targetBreakEvenMonth"`
	Min                  *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max                  *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance            float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations        int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return OptimizerFieldBasePrice
	}
	switch squash(trimmed) {
	case "basepriceperunit", "price", "priceperunit":
		return OptimizerFieldBasePrice
	case "basebookings", "bookings":
		return OptimizerFieldBaseBookings
	case "basemarketingbudget", "marketingbudget", "marketing":
		return OptimizerFieldMarketing
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)

	o.Kind = strings.ToLower(strings.TrimSpace(o.Kind))
	if o.Kind == "" {
		o.Kind = OptimizerKindBreakEven
	}

	if o.TargetBreakEvenMonth <= 0 {
		o.TargetBreakEvenMonth = defaultTargetBreakEvenMonth
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultToleranceAmount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	switch o.Field {
	case OptimizerFieldBasePrice, OptimizerFieldBaseBookings, OptimizerFieldMarketing:
		// supported fields
	default:
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	}
	if o.Kind != OptimizerKindBreakEven {
		return fmt.Errorf("optimizer kind %q is not supported", o.Kind)
	}
	if o.Min == nil {
		return fmt.Errorf("optimizer requires a minimum bound")
	}
	if o.Max == nil {
		return fmt.Errorf("optimizer requires a maximum bound")
	}
	if *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f must not be negative", *o.Min)
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	return nil
}

// HigherIsBetter reports whether raising the field moves break-even earlier.
func (o *OptimizerConfig) HigherIsBetter() bool {
	return o.Field != OptimizerFieldMarketing
}
