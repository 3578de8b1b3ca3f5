package catalog

// PersonaProfile describes how a class of users experiences equipment age
type PersonaProfile struct {
	ID             string  `toml:"id" json:"id"`
	Description    string  `toml:"description" json:"description"`
	SalaryEUR      float64 `toml:"salary_eur" json:"salary_eur"`
	DailyHours     float64 `toml:"daily_hours" json:"daily_hours"`
	LagSensitivity float64 `toml:"lag_sensitivity" json:"lag_sensitivity"`
}

// DeviceClass is the reference specification for one equipment category
type DeviceClass struct {
	ID              string  `toml:"id" json:"id"`
	PriceNewEUR     float64 `toml:"price_new_eur" json:"price_new_eur"`
	EmbodiedCO2Kg   float64 `toml:"embodied_co2_kg" json:"embodied_co2_kg"`
	PowerKW         float64 `toml:"power_kw" json:"power_kw"`
	LifespanMonths  int     `toml:"lifespan_months" json:"lifespan_months"`
	RefurbAvailable bool    `toml:"refurb_available" json:"refurb_available"`
	HoldsData       bool    `toml:"holds_data" json:"holds_data"`
}

// LifespanYears returns the expected useful life in years
func (d DeviceClass) LifespanYears() float64 {
	return float64(d.LifespanMonths) / 12.0
}

// Geography is one electricity market with its grid carbon intensity
type Geography struct {
	ID                 string  `toml:"id" json:"id"`
	Name               string  `toml:"name" json:"name"`
	GridFactorKgPerKWh float64 `toml:"grid_factor_kg_per_kwh" json:"grid_factor_kg_per_kwh"`
	PriceKWhEUR        float64 `toml:"price_kwh_eur" json:"price_kwh_eur"`
}

// RefurbParams are the refurbished-market constants
type RefurbParams struct {
	CO2ReductionRate   float64 `toml:"co2_reduction_rate" json:"co2_reduction_rate"`     // manufacturing CO2 avoided
	PriceDiscountRate  float64 `toml:"price_discount_rate" json:"price_discount_rate"`   // off the new price
	EnergyPenaltyRate  float64 `toml:"energy_penalty_rate" json:"energy_penalty_rate"`   // older tech draws more
	WarrantyYears      float64 `toml:"warranty_years" json:"warranty_years"`             // effective lifespan
	ResidualAtEndOfUse float64 `toml:"residual_at_end_of_use" json:"residual_at_end_of_use"`
}

// ProductivityParams model productivity degradation with device age
type ProductivityParams struct {
	OptimalYears       float64 `toml:"optimal_years" json:"optimal_years"`
	DegradationPerYear float64 `toml:"degradation_per_year" json:"degradation_per_year"`
	MaxDegradation     float64 `toml:"max_degradation" json:"max_degradation"`
	WorkingDaysPerYear float64 `toml:"working_days_per_year" json:"working_days_per_year"`
}

// DisposalParams are end-of-life handling costs
type DisposalParams struct {
	WithDataEUR    float64 `toml:"with_data_eur" json:"with_data_eur"` // includes a wipe pass
	WithoutDataEUR float64 `toml:"without_data_eur" json:"without_data_eur"`
}
