package testutil

import (
	"testing"

	"github.com/iwvelando/growth-forecast/internal/forecast"
	"github.com/iwvelando/growth-forecast/pkg/growth"
)

func sampleForecasts() []forecast.Forecast {
	return []forecast.Forecast{
		{
			Name: "Scenario A",
			Result: growth.Result{Months: []growth.MonthlySnapshot{
				{Month: 1, Revenue: 1000},
				{Month: 2, Revenue: 1100},
			}},
		},
		{
			Name:   "Scenario B",
			Result: growth.Result{Months: []growth.MonthlySnapshot{{Month: 1, Revenue: 2000}}},
		},
	}
}

func TestFindScenario(t *testing.T) {
	results := sampleForecasts()

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
	}{
		{name: "Find existing scenario A", searchName: "Scenario A", expectFound: true},
		{name: "Find existing scenario B", searchName: "Scenario B", expectFound: true},
		{name: "Case sensitive", searchName: "scenario a", expectFound: false},
		{name: "Empty name", searchName: "", expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindScenario(results, tt.searchName)
			if (result != nil) != tt.expectFound {
				t.Fatalf("FindScenario(%q) found = %t, expected %t", tt.searchName, result != nil, tt.expectFound)
			}
			if result != nil && result.Name != tt.searchName {
				t.Errorf("FindScenario(%q) returned %q", tt.searchName, result.Name)
			}
		})
	}
}

func TestFindScenarioReturnsPointerIntoSlice(t *testing.T) {
	results := sampleForecasts()
	found := FindScenario(results, "Scenario B")
	found.Name = "Renamed"
	if results[1].Name != "Renamed" {
		t.Error("expected FindScenario to return a pointer into the original slice")
	}
}

func TestSnapshot(t *testing.T) {
	results := sampleForecasts()
	scenario := FindScenario(results, "Scenario A")

	tests := []struct {
		month       int
		expectFound bool
		revenue     float64
	}{
		{month: 0, expectFound: false},
		{month: 1, expectFound: true, revenue: 1000},
		{month: 2, expectFound: true, revenue: 1100},
		{month: 3, expectFound: false},
	}

	for _, tt := range tests {
		snap, ok := Snapshot(scenario, tt.month)
		if ok != tt.expectFound {
			t.Errorf("Snapshot(%d) found = %t, expected %t", tt.month, ok, tt.expectFound)
			continue
		}
		if ok && snap.Revenue != tt.revenue {
			t.Errorf("Snapshot(%d).Revenue = %.2f, expected %.2f", tt.month, snap.Revenue, tt.revenue)
		}
	}

	if _, ok := Snapshot(nil, 1); ok {
		t.Error("expected nil forecast to have no snapshots")
	}
}
