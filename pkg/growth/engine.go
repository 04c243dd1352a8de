package growth

import (
	"context"
	"math"
	"runtime"
	"sort"

	"github.com/iwvelando/growth-forecast/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Input is everything one timeline computation needs.
type Input struct {
	Operations          Operations `json:"operations"`
	BasePricePerUnit    float64    `json:"basePricePerUnit"`
	BaseBookings        float64    `json:"baseBookings"`
	BaseMarketingBudget float64    `json:"baseMarketingBudget"`
	SeasonCoefficients  []float64  `json:"seasonCoefficients"`
	HorizonMonths       int        `json:"horizonMonths"`
	Events              []Event    `json:"events"`
}

// MonthlySnapshot is the computed state of one simulated month.
type MonthlySnapshot struct {
	Month             int               `json:"month"`
	Workforce         []WorkforceMember `json:"workforce"`
	CostItems         []CostItem        `json:"costItems"`
	CapacityTotal     float64           `json:"capacityTotal"`
	CapacityCeiling   float64           `json:"capacityCeiling"`
	Utilization       float64           `json:"utilization"`
	SeasonCoefficient float64           `json:"seasonCoefficient"`
	UnitPrice         float64           `json:"unitPrice"`
	Bookings          float64           `json:"bookings"`
	MarketingBudget   float64           `json:"marketingBudget"`
	Revenue           float64           `json:"revenue"`
	WorkforceCost     float64           `json:"workforceCost"`
	VariableCost      float64           `json:"variableCost"`
	FixedCost         float64           `json:"fixedCost"`
	MarketingCost     float64           `json:"marketingCost"`
	TotalCost         float64           `json:"totalCost"`
	Profit            float64           `json:"profit"`
	CumulativeProfit  float64           `json:"cumulativeProfit"`

	nonOperatingCashFlow float64
}

// Summary reduces a timeline to totals and the break-even month. BreakEvenMonth
// is nil when cumulative profit never becomes non-negative.
type Summary struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalCosts     float64 `json:"totalCosts"`
	TotalProfit    float64 `json:"totalProfit"`
	BreakEvenMonth *int    `json:"breakEvenMonth"`
}

// Result is the output of one timeline computation.
type Result struct {
	Months      []MonthlySnapshot  `json:"months"`
	Projections []ProjectionRecord `json:"projections"`
	Summary     Summary            `json:"summary"`
}

// Engine computes growth timelines.
type Engine struct {
	logger      *zap.Logger
	parallelism int
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallelism evaluates months on up to n goroutines. Values below 2 keep
// evaluation sequential; a negative value uses GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n < 0 {
			n = runtime.GOMAXPROCS(0)
		}
		e.parallelism = n
	}
}

// NewEngine creates an engine. A nil logger is replaced by a no-op logger.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs the timeline with a sequential, silent engine.
func Compute(in Input) Result {
	return NewEngine(nil).Compute(in)
}

// Compute evaluates every month of the horizon and reduces the result.
func (eng *Engine) Compute(in Input) Result {
	horizon := in.HorizonMonths
	if horizon < 1 {
		return Result{Months: []MonthlySnapshot{}, Projections: []ProjectionRecord{}}
	}

	events := sortedEvents(in.Events)
	base := BaseState{
		Operations:      in.Operations,
		MarketingBudget: in.BaseMarketingBudget,
		UnitPrice:       in.BasePricePerUnit,
	}

	months := make([]MonthlySnapshot, horizon)
	if eng.parallelism > 1 && horizon > 1 {
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(eng.parallelism)
		for i := range months {
			g.Go(func() error {
				months[i] = eng.evaluateMonth(in, base, events, i+1)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range months {
			months[i] = eng.evaluateMonth(in, base, events, i+1)
		}
	}

	result := Result{
		Months:      months,
		Projections: make([]ProjectionRecord, 0, horizon),
	}
	cumulative := 0.0
	for i := range months {
		snap := &months[i]
		cumulative += snap.Profit
		snap.CumulativeProfit = cumulative
		if result.Summary.BreakEvenMonth == nil && cumulative >= 0 {
			m := snap.Month
			result.Summary.BreakEvenMonth = &m
		}
		result.Summary.TotalRevenue += snap.Revenue
		result.Summary.TotalCosts += snap.TotalCost
		result.Summary.TotalProfit += snap.Profit
		result.Projections = append(result.Projections, ToProjection(*snap, snap.nonOperatingCashFlow))
	}

	eng.logger.Debug("growth timeline computed",
		zap.String("op", "growth.Compute"),
		zap.Int("horizonMonths", horizon),
		zap.Int("events", len(events)),
		zap.Float64("totalRevenue", result.Summary.TotalRevenue),
		zap.Float64("totalProfit", result.Summary.TotalProfit),
		zap.Bool("breaksEven", result.Summary.BreakEvenMonth != nil),
	)
	return result
}

// evaluateMonth computes everything for month m except the cumulative profit.
func (eng *Engine) evaluateMonth(in Input, base BaseState, events []Event, m int) MonthlySnapshot {
	state := ResolveMonth(base, events, m)
	items := state.Operations.CapacityItems

	planned := TotalPlannedOutput(items) + math.Max(0, state.StandaloneCapacityDelta)
	utilization := WeightedUtilization(items) / constants.PercentageMultiplier

	var bookings float64
	if planned > 0 {
		bookings = planned * utilization
	} else {
		bookings = in.BaseBookings * utilization
	}

	season := SeasonCoefficient(in.SeasonCoefficients, m)
	revenue := math.Max(0, bookings)*season*state.UnitPrice + state.CustomRevenueDelta

	costs := ComputeCosts(state.Operations)
	variableCost := costs.VariableMonthlyTotal + state.CustomVariableCostDelta
	fixedCost := costs.FixedMonthlyTotal + state.CustomFixedCostDelta + state.OneTimeFixedCost
	marketingCost := state.MarketingBudget + state.CustomMarketingDelta
	totalCost := costs.WorkforceMonthlyTotal + variableCost + fixedCost + marketingCost

	eng.logger.Debug("month resolved",
		zap.String("op", "growth.evaluateMonth"),
		zap.Int("month", m),
		zap.Float64("plannedOutput", planned),
		zap.Float64("bookings", bookings),
		zap.Float64("revenue", revenue),
		zap.Float64("totalCost", totalCost),
	)

	return MonthlySnapshot{
		Month:                m,
		Workforce:            state.Operations.Workforce,
		CostItems:            state.Operations.CostItems,
		CapacityTotal:        planned,
		CapacityCeiling:      TotalCeiling(items),
		Utilization:          utilization * constants.PercentageMultiplier,
		SeasonCoefficient:    season,
		UnitPrice:            state.UnitPrice,
		Bookings:             bookings,
		MarketingBudget:      state.MarketingBudget,
		Revenue:              revenue,
		WorkforceCost:        costs.WorkforceMonthlyTotal,
		VariableCost:         variableCost,
		FixedCost:            fixedCost,
		MarketingCost:        marketingCost,
		TotalCost:            totalCost,
		Profit:               revenue - totalCost,
		nonOperatingCashFlow: state.OneTimeNonOperatingCashFlow,
	}
}

// SeasonCoefficient returns the multiplier for month m, cycling through the
// coefficients. An empty list means no seasonality.
func SeasonCoefficient(coefficients []float64, m int) float64 {
	if len(coefficients) == 0 || m < 1 {
		return constants.DefaultSeasonCoefficient
	}
	return coefficients[(m-1)%len(coefficients)]
}

// sortedEvents returns a copy of events ordered by start month. Events sharing
// a month keep their input order, so later overrides win.
func sortedEvents(events []Event) []Event {
	out := append([]Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}
