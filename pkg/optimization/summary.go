// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single optimization directive.
type Summary struct {
	Scope                string   `json:"scope"`
	TargetName           string   `json:"targetName"`
	Field                string   `json:"field"`
	Original             float64  `json:"original"`
	Value                float64  `json:"value"`
	TargetBreakEvenMonth int      `json:"targetBreakEvenMonth"`
	BreakEvenMonth       *int     `json:"breakEvenMonth"`
	TotalProfit          float64  `json:"totalProfit"`
	Iterations           int      `json:"iterations"`
	Converged            bool     `json:"converged"`
	Notes                []string `json:"notes,omitempty"`
	OriginalDisplay      string   `json:"originalDisplay,omitempty"`
	ValueDisplay         string   `json:"valueDisplay,omitempty"`
}

// ReachedTarget reports whether the optimized value breaks even by the target month.
func (s Summary) ReachedTarget() bool {
	return s.BreakEvenMonth != nil && *s.BreakEvenMonth <= s.TargetBreakEvenMonth
}
