package recommend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/domain"
)

func evenWeights() domain.ScoringWeights {
	return domain.ScoringWeights{Financial: 0.5, Environmental: 0.5}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return NewEngine(catalog.NewDefault(), zerolog.Nop(), opts...)
}

// catalogWithPersonas loads the default catalog plus personas sitting
// exactly on and just over the exclusion threshold.
func catalogWithPersonas(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reference.toml")
	content := `
[[personas]]
id = "on-threshold"
salary_eur = 60000
daily_hours = 8
lag_sensitivity = 2.0

[[personas]]
id = "over-threshold"
salary_eur = 60000
daily_hours = 8
lag_sensitivity = 2.1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cat, err := catalog.NewLoader(zerolog.Nop()).Load(path)
	require.NoError(t, err)
	return cat
}

func TestWeightValidationBeforeScoring(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Recommend(frLaptop(3), domain.ScoringWeights{Financial: 0.7, Environmental: 0.4})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestLagSensitivityThresholdIsStrict(t *testing.T) {
	cat := catalogWithPersonas(t)
	engine := NewEngine(cat, zerolog.Nop())

	// 2.1 > 2.0: excluded, with a reason present
	device := frLaptop(3)
	device.PersonaID = "over-threshold"
	result, err := engine.Recommend(device, evenWeights())
	require.NoError(t, err)
	require.NotEmpty(t, result.ExclusionReasons)
	assert.NotEqual(t, domain.ScenarioBuyRefurb, result.Recommendation)
	for _, opt := range result.Options {
		assert.NotEqual(t, domain.ScenarioBuyRefurb, opt.Scenario)
	}

	// 2.0 exactly is NOT excluded by this rule
	device.PersonaID = "on-threshold"
	result, err = engine.Recommend(device, evenWeights())
	require.NoError(t, err)
	assert.Empty(t, result.ExclusionReasons)
	assert.Len(t, result.Options, 3)
}

func TestRefurbUnavailableExcluded(t *testing.T) {
	engine := newEngine(t)

	device := domain.Device{
		Class:     "meeting-room-screen", // no refurbished market
		AgeYears:  3,
		PersonaID: "admin-normal",
		Geography: "FR",
	}
	result, err := engine.Recommend(device, evenWeights())
	require.NoError(t, err)

	assert.Contains(t, result.ExclusionReasons, ReasonRefurbUnavailable)
	assert.Contains(t, []domain.Scenario{domain.ScenarioKeep, domain.ScenarioBuyNew}, result.Recommendation)
	assert.Len(t, result.Options, 2)
}

func TestBothExclusionReasonsRecorded(t *testing.T) {
	engine := newEngine(t)

	device := domain.Device{
		Class:     "meeting-room-screen",
		AgeYears:  3,
		PersonaID: "admin-high", // lag sensitivity 2.5
		Geography: "FR",
	}
	result, err := engine.Recommend(device, evenWeights())
	require.NoError(t, err)
	assert.Len(t, result.ExclusionReasons, 2)
}

func TestNormalizedScoresInRangeWithBestAtOne(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Recommend(frLaptop(3.5), evenWeights())
	require.NoError(t, err)
	require.Len(t, result.Options, 3)

	var bestFin, bestEnv float64
	lowestTCO, lowestCO2 := result.Options[0], result.Options[0]
	for _, opt := range result.Options {
		assert.GreaterOrEqual(t, opt.FinancialScore, 0.0)
		assert.LessOrEqual(t, opt.FinancialScore, 1.0)
		assert.GreaterOrEqual(t, opt.EnvironmentalScore, 0.0)
		assert.LessOrEqual(t, opt.EnvironmentalScore, 1.0)
		if opt.TCOEUR < lowestTCO.TCOEUR {
			lowestTCO = opt
		}
		if opt.CO2Kg < lowestCO2.CO2Kg {
			lowestCO2 = opt
		}
		if opt.FinancialScore > bestFin {
			bestFin = opt.FinancialScore
		}
		if opt.EnvironmentalScore > bestEnv {
			bestEnv = opt.EnvironmentalScore
		}
	}

	// The cheapest candidate on each dimension scores exactly 1
	assert.Equal(t, 1.0, lowestTCO.FinancialScore)
	assert.Equal(t, 1.0, lowestCO2.EnvironmentalScore)
	assert.Equal(t, 1.0, bestFin)
	assert.Equal(t, 1.0, bestEnv)
}

func TestCompositeMonotonicInFinancialWeight(t *testing.T) {
	engine := newEngine(t)
	device := frLaptop(3.5)

	weightings := []domain.ScoringWeights{
		{Financial: 0.1, Environmental: 0.9},
		{Financial: 0.3, Environmental: 0.7},
		{Financial: 0.5, Environmental: 0.5},
		{Financial: 0.7, Environmental: 0.3},
		{Financial: 0.9, Environmental: 0.1},
	}

	// Track the composite margin of the financially-best option over
	// the financially-worst: it must never shrink as financial weight
	// grows.
	prevMargin := -2.0
	for _, w := range weightings {
		result, err := engine.Recommend(device, w)
		require.NoError(t, err)

		finBest, finWorst := result.Options[0], result.Options[0]
		for _, opt := range result.Options {
			if opt.TCOEUR < finBest.TCOEUR {
				finBest = opt
			}
			if opt.TCOEUR > finWorst.TCOEUR {
				finWorst = opt
			}
		}
		margin := finBest.CompositeScore - finWorst.CompositeScore
		assert.GreaterOrEqual(t, margin+1e-9, prevMargin,
			"financial margin shrank when financial weight grew (w=%.1f)", w.Financial)
		prevMargin = margin
	}
}

func TestRecommendIdempotent(t *testing.T) {
	engine := newEngine(t)
	device := frLaptop(4.2)

	first, err := engine.Recommend(device, evenWeights())
	require.NoError(t, err)
	second, err := engine.Recommend(device, evenWeights())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTieBreakPrefersLowerFootprint(t *testing.T) {
	// Zero-cost, zero-carbon device: every scenario ties at composite
	// 1.0 on both dimensions, so the tie-break order decides.
	engine := newEngine(t)

	zero := 0.0
	device := domain.Device{
		Class:          "laptop",
		AgeYears:       0,
		PersonaID:      "admin-normal",
		Geography:      "FR",
		PriceNewEUR:    &zero,
		PriceRefurbEUR: &zero,
		PowerKW:        &zero,
	}

	result, err := engine.Recommend(device, evenWeights())
	require.NoError(t, err)

	// Not a full tie (disposal amortization differs between NEW and
	// REFURBISHED), but KEEP ties nothing here; assert the winner is
	// consistent with the preference order among true ties.
	if result.Options[0].CompositeScore == result.Options[1].CompositeScore &&
		result.Options[1].CompositeScore == result.Options[2].CompositeScore {
		assert.Equal(t, domain.ScenarioBuyRefurb, result.Recommendation)
	}
}

func TestThresholdOverride(t *testing.T) {
	// admin-high has lag sensitivity 2.5: excluded at the default
	// threshold, eligible when the threshold is raised above it.
	device := frLaptop(3)
	device.PersonaID = "admin-high"

	strict := newEngine(t)
	result, err := strict.Recommend(device, evenWeights())
	require.NoError(t, err)
	assert.NotEmpty(t, result.ExclusionReasons)

	relaxed := newEngine(t, WithLagThreshold(2.5))
	result, err = relaxed.Recommend(device, evenWeights())
	require.NoError(t, err)
	assert.Empty(t, result.ExclusionReasons, "threshold comparison must be strict >")
}

func TestUrgencyOverrideReplacesHighUrgencyKeep(t *testing.T) {
	engine := newEngine(t)

	// Old device for a high-impact persona: HIGH urgency territory
	device := domain.Device{
		Class:     "workstation",
		AgeYears:  6,
		PersonaID: "admin-high",
		Geography: "FR",
	}

	result, err := engine.RecommendWithUrgencyOverride(device, evenWeights())
	require.NoError(t, err)
	assert.Equal(t, UrgencyHigh, result.Urgency)
	assert.NotEqual(t, domain.ScenarioKeep, result.Recommendation)
}

func TestUrgencyLevels(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		name      string
		age       float64
		personaID string
		want      string
	}{
		{"young device, tolerant persona", 1.0, "vendor", UrgencyLow},
		{"aging device", 4.2, "admin-normal", UrgencyMedium},
		{"old device, sensitive persona", 6.0, "admin-high", UrgencyHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := frLaptop(tt.age)
			device.PersonaID = tt.personaID
			result, err := engine.Recommend(device, evenWeights())
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Urgency)
		})
	}
}
