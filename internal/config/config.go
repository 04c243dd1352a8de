// Package config defines the data structures related to configuration and
// includes functions for loading, normalizing and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/iwvelando/growth-forecast/pkg/constants"
	"github.com/iwvelando/growth-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected for the optional start date.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for growth-forecast.
type Configuration struct {
	StartDate string        `yaml:"startDate,omitempty" mapstructure:"startDate" validate:"omitempty,datetime=2006-01"`
	Business  Business      `yaml:"business" mapstructure:"business"`
	Scenarios []Scenario    `yaml:"scenarios" mapstructure:"scenarios" validate:"dive"`
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// Business holds the base operating state shared by all scenarios.
type Business struct {
	BasePricePerUnit    float64    `yaml:"basePricePerUnit" mapstructure:"basePricePerUnit" validate:"gte=0"`
	BaseBookings        float64    `yaml:"baseBookings" mapstructure:"baseBookings" validate:"gte=0"`
	BaseMarketingBudget float64    `yaml:"baseMarketingBudget" mapstructure:"baseMarketingBudget"`
	SeasonCoefficients  []float64  `yaml:"seasonCoefficients,omitempty" mapstructure:"seasonCoefficients" validate:"dive,gte=0"`
	HorizonMonths       int        `yaml:"horizonMonths" mapstructure:"horizonMonths" validate:"gte=1"`
	Operations          Operations `yaml:"operations" mapstructure:"operations"`
}

// Operations is the configured workforce, capacity and cost state.
type Operations struct {
	Workforce          []WorkforceMember   `yaml:"workforce,omitempty" mapstructure:"workforce" validate:"dive"`
	CapacityItems      []CapacityItem      `yaml:"capacityItems,omitempty" mapstructure:"capacityItems" validate:"dive"`
	CostItems          []CostItem          `yaml:"costItems,omitempty" mapstructure:"costItems" validate:"dive"`
	VariableComponents []VariableComponent `yaml:"variableComponents,omitempty" mapstructure:"variableComponents" validate:"dive"`
}

// WorkforceMember is one configured workforce row.
type WorkforceMember struct {
	Role         string  `yaml:"role" mapstructure:"role"`
	Count        float64 `yaml:"count" mapstructure:"count" validate:"gte=0"`
	RatePerHour  float64 `yaml:"ratePerHour" mapstructure:"ratePerHour"`
	HoursPerWeek float64 `yaml:"hoursPerWeek" mapstructure:"hoursPerWeek" validate:"gte=0"`
}

// CapacityItem is one configured production or service line.
type CapacityItem struct {
	ID                    string  `yaml:"id,omitempty" mapstructure:"id"`
	Name                  string  `yaml:"name" mapstructure:"name"`
	OfferingID            string  `yaml:"offeringId,omitempty" mapstructure:"offeringId"`
	OutputUnitLabel       string  `yaml:"outputUnitLabel,omitempty" mapstructure:"outputUnitLabel"`
	PlannedOutputPerMonth float64 `yaml:"plannedOutputPerMonth" mapstructure:"plannedOutputPerMonth"`
	MaxOutputPerDay       float64 `yaml:"maxOutputPerDay,omitempty" mapstructure:"maxOutputPerDay"`
	MaxOutputPerWeek      float64 `yaml:"maxOutputPerWeek,omitempty" mapstructure:"maxOutputPerWeek"`
	MaxOutputPerMonth     float64 `yaml:"maxOutputPerMonth,omitempty" mapstructure:"maxOutputPerMonth"`
	UtilizationRate       float64 `yaml:"utilizationRate,omitempty" mapstructure:"utilizationRate" validate:"gte=0,lte=100"`
}

// CostItem is one configured cost row.
type CostItem struct {
	Category               string  `yaml:"category" mapstructure:"category"`
	CostType               string  `yaml:"costType" mapstructure:"costType" validate:"omitempty,oneof=variable fixed"`
	Rate                   float64 `yaml:"rate" mapstructure:"rate"`
	DriverType             string  `yaml:"driverType,omitempty" mapstructure:"driverType"`
	DriverQuantityPerMonth float64 `yaml:"driverQuantityPerMonth,omitempty" mapstructure:"driverQuantityPerMonth"`
}

// VariableComponent is a configured per-unit cost.
type VariableComponent struct {
	Name            string  `yaml:"name" mapstructure:"name"`
	OfferingID      string  `yaml:"offeringId,omitempty" mapstructure:"offeringId"`
	CostPerUnit     float64 `yaml:"costPerUnit" mapstructure:"costPerUnit"`
	QuantityPerUnit float64 `yaml:"quantityPerUnit,omitempty" mapstructure:"quantityPerUnit" validate:"gte=0"`
}

// Scenario holds the events evaluated against the shared business state.
type Scenario struct {
	Name      string           `yaml:"name" mapstructure:"name" validate:"required"`
	Active    bool             `yaml:"active" mapstructure:"active"`
	Overrides Overrides        `yaml:"overrides,omitempty" mapstructure:"overrides"`
	Events    []Event          `yaml:"events,omitempty" mapstructure:"events" validate:"dive"`
	Optimizer *OptimizerConfig `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
}

// Overrides replaces base values of the shared business for one scenario.
type Overrides struct {
	BasePricePerUnit    *float64 `yaml:"basePricePerUnit,omitempty" mapstructure:"basePricePerUnit" validate:"omitempty,gte=0"`
	BaseBookings        *float64 `yaml:"baseBookings,omitempty" mapstructure:"baseBookings" validate:"omitempty,gte=0"`
	BaseMarketingBudget *float64 `yaml:"baseMarketingBudget,omitempty" mapstructure:"baseMarketingBudget"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Normalize fills defaults: horizon, event ids and enabled flags, capacity
// item ids, and canonical spellings of enumerated fields.
func (c *Configuration) Normalize() {
	if c.Business.HorizonMonths == 0 {
		c.Business.HorizonMonths = constants.DefaultHorizonMonths
	}
	for i := range c.Business.Operations.CapacityItems {
		item := &c.Business.Operations.CapacityItems[i]
		if strings.TrimSpace(item.ID) == "" {
			item.ID = uuid.NewString()
		}
	}
	for i := range c.Business.Operations.CostItems {
		item := &c.Business.Operations.CostItems[i]
		item.CostType = strings.ToLower(strings.TrimSpace(item.CostType))
	}
	for i := range c.Scenarios {
		for j := range c.Scenarios[i].Events {
			c.Scenarios[i].Events[j].Normalize()
		}
		if c.Scenarios[i].Optimizer != nil {
			c.Scenarios[i].Optimizer.Normalize()
		}
	}
}

// Validate normalizes the configuration and checks it for values the engine
// cannot evaluate.
func (c *Configuration) Validate() error {
	c.Normalize()

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, scenario := range c.Scenarios {
		for _, event := range scenario.Events {
			if _, err := event.ToGrowthEvent(); err != nil {
				return fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
		}
		if scenario.Optimizer != nil {
			if err := scenario.Optimizer.Validate(); err != nil {
				return fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	cv := validation.ConfigValidator{
		HorizonMonths: c.Business.HorizonMonths,
		SeasonLength:  len(c.Business.SeasonCoefficients),
	}
	for _, item := range c.Business.Operations.CapacityItems {
		cv.CapacityItemIDs = append(cv.CapacityItemIDs, item.ID)
	}

	for _, scenario := range c.Scenarios {
		info := validation.ScenarioConfig{Name: scenario.Name, Active: scenario.Active}
		for _, event := range scenario.Events {
			info.Events = append(info.Events, validation.EventConfig{
				Name:           event.DisplayName(),
				Month:          event.Month,
				Enabled:        event.IsEnabled(),
				CapacityItemID: event.CapacityItemID,
			})
		}
		cv.Scenarios = append(cv.Scenarios, info)
	}

	return cv.ValidateAll()
}

// ActiveScenarios returns the scenarios flagged active, in configuration order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}
