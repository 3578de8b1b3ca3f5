package strategies

// Config parameterizes one macro renewal strategy
type Config struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	RefreshYears       float64 `json:"refresh_years"`              // device replacement cycle
	RefurbRate         float64 `json:"refurb_rate"`                // share of replacements bought refurbished
	RecoveryRate       float64 `json:"recovery_rate"`              // share of retired devices resold
	ImplementationCost float64 `json:"implementation_cost_factor"` // one-time, as fraction of fleet value
}

// DefaultConfigs returns the built-in strategy catalog
func DefaultConfigs() []Config {
	return []Config{
		{
			ID:           "lifecycle_extension",
			Name:         "Lifecycle Extension",
			Description:  "Extend the device refresh cycle from 4 to 5 years",
			RefreshYears: 5, RefurbRate: 0, RecoveryRate: 0, ImplementationCost: 0.02,
		},
		{
			ID:           "circular_procurement",
			Name:         "Circular Procurement",
			Description:  "Prioritize refurbished devices for 70% of replacements",
			RefreshYears: 4, RefurbRate: 0.70, RecoveryRate: 0, ImplementationCost: 0.05,
		},
		{
			ID:           "asset_recovery",
			Name:         "Asset Recovery",
			Description:  "Systematic resale program for all retired devices",
			RefreshYears: 4, RefurbRate: 0, RecoveryRate: 0.85, ImplementationCost: 0.03,
		},
		{
			ID:           "combined_optimization",
			Name:         "Combined Optimization",
			Description:  "Lifecycle extension + circular procurement + asset recovery",
			RefreshYears: 5, RefurbRate: 0.70, RecoveryRate: 0.85, ImplementationCost: 0.08,
		},
		{
			ID:           "aggressive_transition",
			Name:         "Aggressive Transition",
			Description:  "Maximum impact: 6-year cycle, 90% refurbished, full recovery",
			RefreshYears: 6, RefurbRate: 0.90, RecoveryRate: 0.95, ImplementationCost: 0.12,
		},
	}
}
