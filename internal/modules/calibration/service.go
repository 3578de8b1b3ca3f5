package calibration

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/domain"
)

const compositionTolerance = 1e-6

// Params is the raw caller input for fleet calibration
type Params struct {
	FleetSize         int                `json:"fleet_size"`
	RenewalRate       float64            `json:"renewal_rate"`
	Geography         string             `json:"geography"`
	TargetComposition domain.Composition `json:"target_composition"`

	// Optional fleet averages. Zero values fall back to catalog-derived
	// averages across all device classes.
	AvgAgeYears      float64 `json:"avg_age_years"`
	AvgDevicePrice   float64 `json:"avg_device_price_eur"`
	AvgEmbodiedCO2Kg float64 `json:"avg_embodied_co2_kg"`
	AvgPowerKW       float64 `json:"avg_power_kw"`
}

// Service validates fleet parameters into an immutable baseline
type Service struct {
	catalog *catalog.Catalog
	log     zerolog.Logger
}

// NewService creates a calibration service
func NewService(cat *catalog.Catalog, log zerolog.Logger) *Service {
	return &Service{
		catalog: cat,
		log:     log.With().Str("service", "calibration").Logger(),
	}
}

// Calibrate validates params and returns the fleet baseline. All
// validation happens here; downstream stages assume a well-formed
// baseline and never re-check.
func (s *Service) Calibrate(params Params) (domain.FleetBaseline, error) {
	if params.FleetSize <= 0 {
		return domain.FleetBaseline{}, domain.NewValidationError("fleet_size", "must be positive")
	}
	if params.RenewalRate < 0 || params.RenewalRate > 1 {
		return domain.FleetBaseline{}, domain.NewValidationError("renewal_rate", "must be in [0,1]")
	}

	comp := params.TargetComposition
	for _, f := range []float64{comp.Keep, comp.New, comp.Refurbished} {
		if f < 0 || f > 1 {
			return domain.FleetBaseline{}, domain.NewValidationError("target_composition", "fractions must be in [0,1]")
		}
	}
	if math.Abs(comp.Sum()-1.0) > compositionTolerance {
		return domain.FleetBaseline{}, domain.NewValidationError("target_composition", "fractions must sum to 1.0")
	}

	// Geography must resolve before anything computes with it
	if _, err := s.catalog.CarbonFactor(params.Geography); err != nil {
		return domain.FleetBaseline{}, err
	}

	avg := s.catalog.Averages()
	baseline := domain.FleetBaseline{
		FleetSize:         params.FleetSize,
		RenewalRate:       params.RenewalRate,
		Geography:         params.Geography,
		TargetComposition: comp,
		AvgAgeYears:       params.AvgAgeYears,
		AvgDevicePrice:    params.AvgDevicePrice,
		AvgEmbodiedCO2Kg:  params.AvgEmbodiedCO2Kg,
		AvgPowerKW:        params.AvgPowerKW,
	}
	if baseline.AvgAgeYears <= 0 {
		baseline.AvgAgeYears = 3.5 // typical fleet midpoint
	}
	if baseline.AvgDevicePrice <= 0 {
		baseline.AvgDevicePrice = avg.PriceEUR
	}
	if baseline.AvgEmbodiedCO2Kg <= 0 {
		baseline.AvgEmbodiedCO2Kg = avg.EmbodiedCO2Kg
	}
	if baseline.AvgPowerKW <= 0 {
		baseline.AvgPowerKW = avg.PowerKW
	}

	s.log.Debug().
		Int("fleet_size", baseline.FleetSize).
		Str("geography", baseline.Geography).
		Float64("renewal_rate", baseline.RenewalRate).
		Msg("Baseline calibrated")

	return baseline, nil
}
