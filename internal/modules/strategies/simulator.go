package strategies

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/pkg/formulas"
)

const (
	horizonYears    = 3.0
	fleetDayHours   = 8.0  // fleet-level usage assumption
	maxRefreshYears = 10.0 // cap for near-zero renewal rates
)

// Simulator projects macro strategies over a 3-year horizon and ranks
// them against the fleet's current trajectory.
type Simulator struct {
	catalog *catalog.Catalog
	log     zerolog.Logger
}

// NewSimulator creates a strategy simulator
func NewSimulator(cat *catalog.Catalog, log zerolog.Logger) *Simulator {
	return &Simulator{
		catalog: cat,
		log:     log.With().Str("service", "strategies").Logger(),
	}
}

// Compare projects every strategy and returns them ranked: ROI
// descending, exact ties broken by the larger emissions reduction.
// Deterministic: identical inputs always produce the identical order.
func (s *Simulator) Compare(baseline domain.FleetBaseline, configs []Config) ([]domain.StrategyResult, error) {
	gridFactor, err := s.catalog.CarbonFactor(baseline.Geography)
	if err != nil {
		return nil, err
	}
	elecPrice, err := s.catalog.ElectricityPrice(baseline.Geography)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		configs = DefaultConfigs()
	}
	for _, cfg := range configs {
		if cfg.RefreshYears <= 0 {
			return nil, domain.NewValidationError("refresh_years", "must be positive")
		}
		if cfg.RefurbRate < 0 || cfg.RefurbRate > 1 {
			return nil, domain.NewValidationError("refurb_rate", "must be in [0,1]")
		}
	}

	baseTCO, baseCO2 := s.project(baseline, s.currentTrajectory(baseline), gridFactor, elecPrice)

	results := make([]domain.StrategyResult, 0, len(configs))
	for _, cfg := range configs {
		tco, co2 := s.project(baseline, cfg, gridFactor, elecPrice)

		roi := 0.0
		if baseTCO > 0 {
			roi = (baseTCO - tco) / baseTCO
		}

		results = append(results, domain.StrategyResult{
			StrategyID:     cfg.ID,
			Name:           cfg.Name,
			ROI:            roi,
			CO2DeltaKg:     formulas.Round2(co2 - baseCO2),
			TCOEUR:         formulas.Round2(tco),
			BaselineTCOEUR: formulas.Round2(baseTCO),
			CO2Kg:          formulas.Round2(co2),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].ROI != results[j].ROI {
			return results[i].ROI > results[j].ROI
		}
		return results[i].CO2DeltaKg < results[j].CO2DeltaKg
	})

	s.log.Debug().Int("strategies", len(results)).Msg("Strategies compared")
	return results, nil
}

// currentTrajectory expresses the baseline's present behavior as a
// strategy config so both sides run through the same projection.
func (s *Simulator) currentTrajectory(baseline domain.FleetBaseline) Config {
	refresh := maxRefreshYears
	if baseline.RenewalRate > 0 {
		refresh = formulas.Clamp(1.0/baseline.RenewalRate, 1, maxRefreshYears)
	}
	return Config{ID: "current", RefreshYears: refresh}
}

// project computes the 3-year total cost and CO2 for one strategy.
//
// Cost per year: acquisitions (refurbished share discounted), energy,
// productivity loss from the steady-state fleet age (refresh/2), minus
// recovered residual value; plus the one-time implementation cost.
func (s *Simulator) project(baseline domain.FleetBaseline, cfg Config, gridFactor, elecPrice float64) (tco, co2 float64) {
	fleet := float64(baseline.FleetSize)
	refurb := s.catalog.Refurb()
	prod := s.catalog.Productivity()

	replacements := fleet / cfg.RefreshYears
	avgUnitPrice := baseline.AvgDevicePrice * (1 - cfg.RefurbRate*refurb.PriceDiscountRate)
	acquisition := replacements * avgUnitPrice

	annualHours := fleetDayHours * prod.WorkingDaysPerYear
	energyKWh := fleet * baseline.AvgPowerKW * annualHours
	energyCost := energyKWh * elecPrice

	// Steady-state average device age under an R-year cycle is R/2
	steadyAge := cfg.RefreshYears / 2
	lossPct := formulas.Clamp((steadyAge-prod.OptimalYears)*prod.DegradationPerYear, 0, prod.MaxDegradation)
	lagCost := fleet * s.avgSalaryWeighted() * lossPct

	recovery := replacements * cfg.RecoveryRate * baseline.AvgDevicePrice * s.catalog.DepreciationRate(cfg.RefreshYears)
	implementation := fleet * baseline.AvgDevicePrice * cfg.ImplementationCost

	tco = horizonYears*(acquisition+energyCost+lagCost-recovery) + implementation

	manufacturingCO2 := replacements * baseline.AvgEmbodiedCO2Kg * (1 - cfg.RefurbRate*refurb.CO2ReductionRate)
	usageCO2 := energyKWh * gridFactor
	co2 = horizonYears * (manufacturingCO2 + usageCO2)

	return tco, co2
}

// avgSalaryWeighted is the lag-weighted mean salary across personas:
// the productivity cost of an aging fleet lands hardest on the roles
// most sensitive to it.
func (s *Simulator) avgSalaryWeighted() float64 {
	var weighted, totalSensitivity float64
	for _, id := range s.catalog.PersonaIDs() {
		p, err := s.catalog.Persona(id)
		if err != nil {
			continue
		}
		weighted += p.SalaryEUR * p.LagSensitivity
		totalSensitivity += p.LagSensitivity
	}
	if totalSensitivity == 0 {
		return 0
	}
	return weighted / totalSensitivity
}
