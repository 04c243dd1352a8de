// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"fmt"

	"github.com/iwvelando/growth-forecast/internal/config"
	"github.com/iwvelando/growth-forecast/pkg/datetime"
	"github.com/iwvelando/growth-forecast/pkg/growth"
	"github.com/iwvelando/growth-forecast/pkg/optimization"
	"go.uber.org/zap"
)

// Forecast holds all information related to a specific forecast.
type Forecast struct {
	Name          string                 `json:"name"`
	Labels        []string               `json:"labels"`
	Result        growth.Result          `json:"result"`
	Optimizations []optimization.Summary `json:"optimizations,omitempty"`
}

// BreakEvenLabel returns the label of the break-even month, or an empty
// string when the scenario never breaks even.
func (f Forecast) BreakEvenLabel() string {
	month := f.Result.Summary.BreakEvenMonth
	if month == nil {
		return ""
	}
	if *month >= 1 && *month <= len(f.Labels) {
		return f.Labels[*month-1]
	}
	return growth.MonthLabel(*month)
}

// GetForecast processes the Forecasts for all active Scenarios.
func GetForecast(logger *zap.Logger, conf config.Configuration, opts ...growth.Option) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	labels, err := Labels(conf)
	if err != nil {
		return nil, err
	}

	engine := growth.NewEngine(logger, opts...)
	var results []Forecast
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}

		result, err := RunScenario(engine, &conf, scenario)
		if err != nil {
			return results, err
		}
		results = append(results, Forecast{
			Name:   scenario.Name,
			Labels: labels,
			Result: result,
		})
	}

	return results, nil
}

// RunScenario computes the timeline of one scenario against the shared business.
func RunScenario(engine *growth.Engine, conf *config.Configuration, scenario config.Scenario) (growth.Result, error) {
	input, err := conf.GrowthInput(scenario)
	if err != nil {
		return growth.Result{}, err
	}
	return engine.Compute(input), nil
}

// Labels returns one display label per month of the horizon: calendar months
// when a start date is configured and "Month m" otherwise.
func Labels(conf config.Configuration) ([]string, error) {
	horizon := conf.Business.HorizonMonths
	if conf.StartDate != "" {
		return datetime.CalendarLabels(conf.StartDate, max(horizon, 0))
	}

	labels := make([]string, 0, max(horizon, 0))
	for m := 1; m <= horizon; m++ {
		labels = append(labels, growth.MonthLabel(m))
	}
	return labels, nil
}
