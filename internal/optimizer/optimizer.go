// Package optimizer searches scenario base values that reach break-even by a
// target month.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/growth-forecast/internal/config"
	"github.com/iwvelando/growth-forecast/internal/forecast"
	"github.com/iwvelando/growth-forecast/pkg/constants"
	formatutil "github.com/iwvelando/growth-forecast/pkg/format"
	"github.com/iwvelando/growth-forecast/pkg/growth"
	"github.com/iwvelando/growth-forecast/pkg/mathutil"
	"github.com/iwvelando/growth-forecast/pkg/optimization"
	"go.uber.org/zap"
)

// Runner evaluates the optimizer directives of a configuration.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
	engine *growth.Engine
}

type scenarioTarget struct {
	scenarioIndex int
	scenarioName  string
	cfg           *config.OptimizerConfig
	original      float64
}

type evaluation struct {
	value       float64
	breakEven   *int
	totalProfit float64
	target      int
}

func (e evaluation) feasible() bool {
	return e.breakEven != nil && *e.breakEven <= e.target
}

// Result summarizes optimizer adjustments keyed by scenario name.
type Result struct {
	Summaries map[string][]optimization.Summary
}

// Empty indicates whether any optimizer adjustments were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches optimizer summaries to the provided forecast results.
func (r Result) Apply(forecasts []forecast.Forecast) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range forecasts {
		summaries, ok := r.Summaries[forecasts[i].Name]
		if !ok {
			continue
		}
		forecasts[i].Optimizations = append(forecasts[i].Optimizations, summaries...)
	}
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration, opts ...growth.Option) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	// candidate evaluations run on a silent engine
	return &Runner{logger: logger, conf: conf, engine: growth.NewEngine(zap.NewNop(), opts...)}, nil
}

// Run executes all optimizer directives and stores the chosen values as
// scenario overrides on the configuration.
func (r *Runner) Run() (*Result, error) {
	targets, err := r.collectTargets()
	if err != nil {
		return nil, err
	}

	summaries := make(map[string][]optimization.Summary)
	for _, target := range targets {
		summary, err := r.optimizeScenario(target)
		if err != nil {
			return nil, err
		}
		summaries[target.scenarioName] = append(summaries[target.scenarioName], summary)

		breakEven := 0
		if summary.BreakEvenMonth != nil {
			breakEven = *summary.BreakEvenMonth
		}
		r.logger.Info("optimizer adjusted base value",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", target.scenarioName),
			zap.String("field", summary.Field),
			zap.Float64("original", summary.Original),
			zap.Float64("optimized", summary.Value),
			zap.Int("targetBreakEvenMonth", summary.TargetBreakEvenMonth),
			zap.Int("breakEvenMonth", breakEven),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries}, nil
}

func (r *Runner) collectTargets() ([]scenarioTarget, error) {
	var targets []scenarioTarget
	for i := range r.conf.Scenarios {
		scenario := &r.conf.Scenarios[i]
		if !scenario.Active || scenario.Optimizer == nil {
			continue
		}
		if err := scenario.Optimizer.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		targets = append(targets, scenarioTarget{
			scenarioIndex: i,
			scenarioName:  scenario.Name,
			cfg:           scenario.Optimizer,
			original:      r.conf.BaseValue(*scenario, scenario.Optimizer.Field),
		})
	}
	return targets, nil
}

func (r *Runner) optimizeScenario(target scenarioTarget) (optimization.Summary, error) {
	cfg := target.cfg
	good, bad := *cfg.Max, *cfg.Min
	if !cfg.HigherIsBetter() {
		good, bad = bad, good
	}

	summary := optimization.Summary{
		Scope:                "scenario",
		TargetName:           target.scenarioName,
		Field:                cfg.Field,
		Original:             target.original,
		OriginalDisplay:      formatFieldDisplay(cfg.Field, target.original),
		TargetBreakEvenMonth: cfg.TargetBreakEvenMonth,
	}

	goodEval, err := r.evaluate(target, good)
	if err != nil {
		return summary, err
	}
	if !goodEval.feasible() {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to break even by month %d within bounds %s to %s",
			cfg.TargetBreakEvenMonth,
			formatFieldDisplay(cfg.Field, *cfg.Min),
			formatFieldDisplay(cfg.Field, *cfg.Max),
		))
		return r.apply(target, summary, goodEval)
	}

	badEval, err := r.evaluate(target, bad)
	if err != nil {
		return summary, err
	}
	if badEval.feasible() {
		summary.Converged = true
		return r.apply(target, summary, badEval)
	}

	// Bisection between a feasible and an infeasible value.
	feasible, infeasible := goodEval, badEval
	for summary.Iterations < cfg.MaxIterations && !mathutil.WithinTolerance(feasible.value, infeasible.value, cfg.Tolerance) {
		summary.Iterations++
		mid, err := r.evaluate(target, (feasible.value+infeasible.value)/2)
		if err != nil {
			return summary, err
		}
		if mid.feasible() {
			feasible = mid
		} else {
			infeasible = mid
		}
	}
	summary.Converged = mathutil.WithinTolerance(feasible.value, infeasible.value, cfg.Tolerance)

	snapped := snapFieldValue(feasible.value, cfg.HigherIsBetter(), *cfg.Min, *cfg.Max)
	if snapped != feasible.value {
		snappedEval, err := r.evaluate(target, snapped)
		if err != nil {
			return summary, err
		}
		if snappedEval.feasible() {
			feasible = snappedEval
		}
	}
	return r.apply(target, summary, feasible)
}

func (r *Runner) apply(target scenarioTarget, summary optimization.Summary, eval evaluation) (optimization.Summary, error) {
	scenario := &r.conf.Scenarios[target.scenarioIndex]
	if err := scenario.SetOverride(target.cfg.Field, eval.value); err != nil {
		return summary, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	summary.Value = eval.value
	summary.ValueDisplay = formatFieldDisplay(target.cfg.Field, eval.value)
	summary.BreakEvenMonth = eval.breakEven
	summary.TotalProfit = eval.totalProfit
	return summary, nil
}

func (r *Runner) evaluate(target scenarioTarget, value float64) (evaluation, error) {
	candidate := r.conf.Scenarios[target.scenarioIndex]
	candidate.Overrides = config.Overrides{
		BasePricePerUnit:    candidate.Overrides.BasePricePerUnit,
		BaseBookings:        candidate.Overrides.BaseBookings,
		BaseMarketingBudget: candidate.Overrides.BaseMarketingBudget,
	}
	if err := candidate.SetOverride(target.cfg.Field, value); err != nil {
		return evaluation{}, fmt.Errorf("scenario %s: %w", candidate.Name, err)
	}

	result, err := forecast.RunScenario(r.engine, r.conf, candidate)
	if err != nil {
		return evaluation{}, fmt.Errorf("optimizer evaluation failed: %w", err)
	}
	return evaluation{
		value:       value,
		breakEven:   result.Summary.BreakEvenMonth,
		totalProfit: result.Summary.TotalProfit,
		target:      target.cfg.TargetBreakEvenMonth,
	}, nil
}

// snapFieldValue rounds value to whole cents toward the feasible side and
// clamps it to the bounds.
func snapFieldValue(value float64, higherIsBetter bool, minValue, maxValue float64) float64 {
	var snapped float64
	if higherIsBetter {
		snapped = math.Ceil(value*constants.DecimalPrecision) / constants.DecimalPrecision
	} else {
		snapped = math.Floor(value*constants.DecimalPrecision) / constants.DecimalPrecision
	}
	return math.Min(math.Max(snapped, minValue), maxValue)
}

func formatFieldDisplay(field string, value float64) string {
	if field == config.OptimizerFieldBaseBookings {
		return fmt.Sprintf("%.2f bookings", value)
	}
	return formatutil.Currency(value)
}
