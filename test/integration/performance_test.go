package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/iwvelando/growth-forecast/internal/config"
	"github.com/iwvelando/growth-forecast/internal/forecast"
	"github.com/iwvelando/growth-forecast/pkg/growth"
	"go.uber.org/zap"
)

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	// Create a no-op logger to avoid debug output during testing
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	results, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	forecastTime := time.Since(start)

	totalTime := loadTime + forecastTime

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  Generate forecast: %v", forecastTime)
	t.Logf("  Total time: %v", totalTime)

	if totalTime > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", totalTime)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}
}

// TestLongHorizon runs a ten-year timeline with many events sequentially and
// in parallel.
func TestLongHorizon(t *testing.T) {
	in := growth.Input{
		BasePricePerUnit: 30,
		BaseBookings:     400,
		HorizonMonths:    120,
		Operations: growth.Operations{
			CapacityItems: []growth.CapacityItem{
				{ID: "a", PlannedOutputPerMonth: 300, UtilizationRate: 80},
				{ID: "b", PlannedOutputPerMonth: 200, UtilizationRate: 60},
			},
		},
	}
	for m := 1; m <= 120; m += 3 {
		in.Events = append(in.Events, growth.Event{
			ID:      fmt.Sprintf("cap-%d", m),
			Month:   m,
			Enabled: true,
			Delta:   growth.CapacityChange{CapacityItemID: "a", OutputDelta: 5},
		})
		in.Events = append(in.Events, growth.Event{
			ID:      fmt.Sprintf("cost-%d", m),
			Month:   m,
			Enabled: true,
			Delta:   growth.Custom{Value: 10, Target: growth.TargetFixedCost},
		})
	}

	start := time.Now()
	sequential := growth.NewEngine(zap.NewNop()).Compute(in)
	sequentialTime := time.Since(start)

	start = time.Now()
	parallel := growth.NewEngine(zap.NewNop(), growth.WithParallelism(8)).Compute(in)
	parallelTime := time.Since(start)

	t.Logf("sequential %v, parallel %v", sequentialTime, parallelTime)

	if len(sequential.Months) != 120 || len(parallel.Months) != 120 {
		t.Fatalf("expected 120 months, got %d and %d", len(sequential.Months), len(parallel.Months))
	}
	if sequential.Summary.TotalProfit != parallel.Summary.TotalProfit {
		t.Errorf("parallel total profit %.4f differs from sequential %.4f",
			parallel.Summary.TotalProfit, sequential.Summary.TotalProfit)
	}
	if sequentialTime > 5*time.Second {
		t.Errorf("sequential evaluation took %v", sequentialTime)
	}
}

// TestMemoryUsage runs repeated forecasts to surface leaks or shared state.
func TestMemoryUsage(t *testing.T) {
	logger := zap.NewNop()

	var previous float64
	for i := 0; i < 10; i++ {
		conf, err := config.LoadConfiguration(testConfigPath)
		if err != nil {
			t.Fatalf("LoadConfiguration failed on iteration %d: %v", i, err)
		}

		results, err := forecast.GetForecast(logger, *conf)
		if err != nil {
			t.Fatalf("GetForecast failed on iteration %d: %v", i, err)
		}
		total := results[0].Result.Summary.TotalProfit
		if i > 0 && total != previous {
			t.Fatalf("iteration %d produced %.4f, expected %.4f", i, total, previous)
		}
		previous = total
	}

	t.Log("Successfully completed 10 iterations without memory issues")
}

func BenchmarkCompute(b *testing.B) {
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		b.Fatalf("LoadConfiguration failed: %v", err)
	}
	input, err := conf.GrowthInput(conf.Scenarios[1])
	if err != nil {
		b.Fatalf("GrowthInput failed: %v", err)
	}
	engine := growth.NewEngine(zap.NewNop())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Compute(input)
	}
}
