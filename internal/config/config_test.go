package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elysia/ecocycle/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.InDelta(t, 0.5, cfg.FinancialWeight, 1e-9)
	assert.InDelta(t, 0.5, cfg.EnvironmentalWeight, 1e-9)
	assert.InDelta(t, 2.0, cfg.LagSensitivityThreshold, 1e-9)
}

func TestValidateRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name          string
		financial     float64
		environmental float64
		wantErr       bool
	}{
		{"sum above one", 0.7, 0.4, true},
		{"sum below one", 0.3, 0.3, true},
		{"negative weight", -0.2, 1.2, true},
		{"valid even split", 0.5, 0.5, false},
		{"valid skewed", 0.9, 0.1, false},
		{"valid within tolerance", 0.3333333, 0.6666667, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DatabasePath:            "./test.db",
				FinancialWeight:         tt.financial,
				EnvironmentalWeight:     tt.environmental,
				LagSensitivityThreshold: 2.0,
			}
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeightOverridesFromEnv(t *testing.T) {
	t.Setenv("FINANCIAL_WEIGHT", "0.8")
	t.Setenv("ENVIRONMENTAL_WEIGHT", "0.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.8, cfg.FinancialWeight, 1e-9)
	assert.InDelta(t, 0.2, cfg.EnvironmentalWeight, 1e-9)
}

func TestInvalidWeightsFailFast(t *testing.T) {
	t.Setenv("FINANCIAL_WEIGHT", "0.7")
	t.Setenv("ENVIRONMENTAL_WEIGHT", "0.4")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}
