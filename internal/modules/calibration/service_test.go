package calibration

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/domain"
)

func newService() *Service {
	return NewService(catalog.NewDefault(), zerolog.Nop())
}

func validParams() Params {
	return Params{
		FleetSize:   1000,
		RenewalRate: 0.20,
		Geography:   "EU-West",
		TargetComposition: domain.Composition{
			Keep: 0.5, New: 0.3, Refurbished: 0.2,
		},
	}
}

func TestCalibrateValid(t *testing.T) {
	svc := newService()

	baseline, err := svc.Calibrate(validParams())
	require.NoError(t, err)

	assert.Equal(t, 1000, baseline.FleetSize)
	assert.Equal(t, "EU-West", baseline.Geography)

	// Omitted averages fall back to catalog-derived values
	assert.Greater(t, baseline.AvgDevicePrice, 0.0)
	assert.Greater(t, baseline.AvgEmbodiedCO2Kg, 0.0)
	assert.Greater(t, baseline.AvgPowerKW, 0.0)
	assert.Greater(t, baseline.AvgAgeYears, 0.0)
}

func TestCalibrateRejectsMalformedInput(t *testing.T) {
	svc := newService()

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero fleet size", func(p *Params) { p.FleetSize = 0 }},
		{"negative fleet size", func(p *Params) { p.FleetSize = -5 }},
		{"renewal rate above one", func(p *Params) { p.RenewalRate = 1.2 }},
		{"negative renewal rate", func(p *Params) { p.RenewalRate = -0.1 }},
		{"composition does not sum to one", func(p *Params) {
			p.TargetComposition = domain.Composition{Keep: 0.5, New: 0.3, Refurbished: 0.3}
		}},
		{"negative composition fraction", func(p *Params) {
			p.TargetComposition = domain.Composition{Keep: 1.2, New: -0.2, Refurbished: 0.0}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := svc.Calibrate(params)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err), "expected ValidationError, got %v", err)
		})
	}
}

func TestCalibrateUnknownGeography(t *testing.T) {
	svc := newService()
	params := validParams()
	params.Geography = "ATLANTIS"

	_, err := svc.Calibrate(params)
	require.Error(t, err)
	assert.True(t, domain.IsReferenceNotFound(err))
}

func TestCalibrateCompositionTolerance(t *testing.T) {
	svc := newService()
	params := validParams()
	// Within floating-point tolerance of 1.0
	params.TargetComposition = domain.Composition{Keep: 0.3333333, New: 0.3333333, Refurbished: 0.3333334}

	_, err := svc.Calibrate(params)
	assert.NoError(t, err)
}

func TestCalibrateKeepsExplicitAverages(t *testing.T) {
	svc := newService()
	params := validParams()
	params.AvgAgeYears = 4.2
	params.AvgDevicePrice = 1150
	params.AvgEmbodiedCO2Kg = 365

	baseline, err := svc.Calibrate(params)
	require.NoError(t, err)
	assert.InDelta(t, 4.2, baseline.AvgAgeYears, 1e-9)
	assert.InDelta(t, 1150, baseline.AvgDevicePrice, 1e-9)
	assert.InDelta(t, 365, baseline.AvgEmbodiedCO2Kg, 1e-9)
}
