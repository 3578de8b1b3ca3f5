package domain

import "time"

// Scenario represents a renewal option for a device
type Scenario string

const (
	ScenarioKeep        Scenario = "KEEP"
	ScenarioBuyNew      Scenario = "BUY_NEW"
	ScenarioBuyRefurb   Scenario = "BUY_REFURBISHED"
)

// tieBreakRank orders scenarios for exact composite-score ties.
// Lower rank wins: prefer the lower-footprint option among equals.
var tieBreakRank = map[Scenario]int{
	ScenarioBuyRefurb: 0,
	ScenarioBuyNew:    1,
	ScenarioKeep:      2,
}

// TieBreakRank returns the tie-break preference for a scenario (lower wins)
func TieBreakRank(s Scenario) int {
	if r, ok := tieBreakRank[s]; ok {
		return r
	}
	return len(tieBreakRank)
}

// Composition is the target fleet split across the three scenarios.
// Fractions must each lie in [0,1] and sum to 1.0.
type Composition struct {
	Keep        float64 `json:"keep"`
	New         float64 `json:"new"`
	Refurbished float64 `json:"refurbished"`
}

// Sum returns the total of the three fractions
func (c Composition) Sum() float64 {
	return c.Keep + c.New + c.Refurbished
}

// FleetBaseline is the calibrated starting point for shock and strategy
// calculations. Immutable once calibrated.
type FleetBaseline struct {
	FleetSize         int         `json:"fleet_size"`
	RenewalRate       float64     `json:"renewal_rate"` // fraction of fleet renewed per year
	Geography         string      `json:"geography"`
	TargetComposition Composition `json:"target_composition"`

	// Fleet averages. Supplied by the caller or derived from the
	// reference catalog during calibration.
	AvgAgeYears      float64 `json:"avg_age_years"`
	AvgDevicePrice   float64 `json:"avg_device_price_eur"`
	AvgEmbodiedCO2Kg float64 `json:"avg_embodied_co2_kg"`
	AvgPowerKW       float64 `json:"avg_power_kw"`
}

// Device is a single equipment unit under evaluation. Constructed per
// request, never persisted.
type Device struct {
	Class     string  `json:"class"`
	AgeYears  float64 `json:"age_years"`
	PersonaID string  `json:"persona_id"`
	Geography string  `json:"geography"`

	// Optional overrides. When nil the catalog values for the device
	// class apply; a nil refurbished price falls back to the discounted
	// new price when a refurbished market exists.
	PriceNewEUR    *float64 `json:"price_new_eur,omitempty"`
	PriceRefurbEUR *float64 `json:"price_refurb_eur,omitempty"`
	PowerKW        *float64 `json:"power_kw,omitempty"`
}

// ShockResult quantifies the cost of doing nothing. Both values are
// non-negative by construction.
type ShockResult struct {
	StrandedValueEUR float64 `json:"stranded_value_eur"`
	AvoidableCO2Kg   float64 `json:"avoidable_co2_kg"`
}

// StrategyResult is the 3-year projection for one macro strategy.
// ROI and CO2Delta are signed: a negative ROI means the strategy costs
// more than the baseline, a negative CO2Delta means it emits less.
type StrategyResult struct {
	StrategyID     string  `json:"strategy_id"`
	Name           string  `json:"name"`
	ROI            float64 `json:"roi"`
	CO2DeltaKg     float64 `json:"co2_delta_kg"`
	TCOEUR         float64 `json:"tco_eur"`
	BaselineTCOEUR float64 `json:"baseline_tco_eur"`
	CO2Kg          float64 `json:"co2_kg"`
}

// OptionScore holds the raw costs and normalized scores for one scenario
type OptionScore struct {
	Scenario           Scenario `json:"scenario"`
	TCOEUR             float64  `json:"tco_eur"`
	CO2Kg              float64  `json:"co2_kg"`
	FinancialScore     float64  `json:"financial_score"`
	EnvironmentalScore float64  `json:"environmental_score"`
	CompositeScore     float64  `json:"composite_score"`
}

// RecommendationResult is the terminal artifact of a device evaluation.
// Fully reproducible from its inputs.
type RecommendationResult struct {
	Recommendation     Scenario      `json:"recommendation"`
	CompositeScore     float64       `json:"composite_score"`
	FinancialScore     float64       `json:"financial_score"`
	EnvironmentalScore float64       `json:"environmental_score"`
	Options            []OptionScore `json:"options"`
	ExclusionReasons   []string      `json:"exclusion_reasons"`
	Urgency            string        `json:"urgency"`
	UrgencyScore       float64       `json:"urgency_score"`
	Rationale          string        `json:"rationale"`
}

// ScoringWeights arbitrates between financial and environmental cost.
// The two weights must sum to 1.0.
type ScoringWeights struct {
	Financial     float64 `json:"financial_weight"`
	Environmental float64 `json:"environmental_weight"`
}

const weightSumTolerance = 1e-6

// Validate checks that both weights are fractions summing to 1.0
func (w ScoringWeights) Validate() error {
	if w.Financial < 0 || w.Financial > 1 || w.Environmental < 0 || w.Environmental > 1 {
		return NewValidationError("weights", "each weight must be in [0,1]")
	}
	sum := w.Financial + w.Environmental
	if sum < 1-weightSumTolerance || sum > 1+weightSumTolerance {
		return NewValidationError("weights", "financial_weight and environmental_weight must sum to 1.0")
	}
	return nil
}

// AuditRun is a persisted fleet audit with its summary
type AuditRun struct {
	ID          int64     `json:"id"`
	Geography   string    `json:"geography"`
	DeviceCount int       `json:"device_count"`
	CreatedAt   time.Time `json:"created_at"`
}
