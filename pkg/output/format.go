// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/growth-forecast/internal/forecast"
	formatutil "github.com/iwvelando/growth-forecast/pkg/format"
	"github.com/iwvelando/growth-forecast/pkg/growth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []forecast.Forecast) {
	WritePretty(os.Stdout, results)
}

// WritePretty writes the human-readable table of every scenario to w.
func WritePretty(w io.Writer, results []forecast.Forecast) {
	p := message.NewPrinter(language.English)
	for _, result := range results {
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		_, _ = fmt.Fprintf(w, "Month    | Revenue ($)   | Costs ($)     | Profit ($)    | Cumulative ($) | Bookings\n")
		_, _ = fmt.Fprintf(w, "_____    | ___________   | _________     | __________    | ______________ | ________\n")
		for i, snap := range result.Result.Months {
			_, _ = p.Fprintf(w, "%s | %s | %s | %s | %s | %.1f\n",
				label(result, i),
				formatutil.NumericCurrency(snap.Revenue),
				formatutil.NumericCurrency(snap.TotalCost),
				formatutil.NumericCurrency(snap.Profit),
				formatutil.NumericCurrency(snap.CumulativeProfit),
				snap.Bookings)
		}

		summary := result.Result.Summary
		_, _ = fmt.Fprintf(w, "Total revenue: %s\n", formatutil.Currency(summary.TotalRevenue))
		_, _ = fmt.Fprintf(w, "Total costs: %s\n", formatutil.Currency(summary.TotalCosts))
		_, _ = fmt.Fprintf(w, "Total profit: %s\n", formatutil.Currency(summary.TotalProfit))
		if breakEven := result.BreakEvenLabel(); breakEven != "" {
			_, _ = fmt.Fprintf(w, "Break-even: %s\n", breakEven)
		} else {
			_, _ = fmt.Fprintf(w, "Break-even: not reached\n")
		}

		for _, opt := range result.Optimizations {
			status := "converged"
			if !opt.Converged {
				status = "not converged"
			}
			_, _ = fmt.Fprintf(w, "Optimizer: %s %s -> %s (%s, %d iterations)\n",
				opt.Field, opt.OriginalDisplay, opt.ValueDisplay, status, opt.Iterations)
			for _, note := range opt.Notes {
				_, _ = fmt.Fprintf(w, "  note: %s\n", note)
			}
		}

		if len(results) > 1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []forecast.Forecast) {
	fmt.Print(CsvString(results))
}

// CsvString renders the CSV output as a string.
func CsvString(results []forecast.Forecast) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`"month"`)
	for _, result := range results {
		fmt.Fprintf(&b, `,"revenue (%s)","costs (%s)","profit (%s)","cumulative profit (%s)"`,
			result.Name, result.Name, result.Name, result.Name)
	}
	b.WriteString("\n")

	// All results share the business horizon, so take the timeline from the first
	for i := range results[0].Result.Months {
		fmt.Fprintf(&b, `"%s"`, label(results[0], i))
		for _, result := range results {
			if i >= len(result.Result.Months) {
				b.WriteString(`,"","","",""`)
				continue
			}
			snap := result.Result.Months[i]
			fmt.Fprintf(&b, `,"%s","%s","%s","%s"`,
				formatutil.Plain(snap.Revenue),
				formatutil.Plain(snap.TotalCost),
				formatutil.Plain(snap.Profit),
				formatutil.Plain(snap.CumulativeProfit),
			)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// JSONFormat outputs the forecasts as indented JSON.
func JSONFormat(results []forecast.Forecast) error {
	return WriteJSON(os.Stdout, results)
}

// WriteJSON writes the forecasts as indented JSON to w.
func WriteJSON(w io.Writer, results []forecast.Forecast) error {
	if results == nil {
		results = []forecast.Forecast{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode forecast results: %w", err)
	}
	return nil
}

func label(result forecast.Forecast, index int) string {
	if index < len(result.Labels) {
		return result.Labels[index]
	}
	return growth.MonthLabel(index + 1)
}
