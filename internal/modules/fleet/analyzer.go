package fleet

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/internal/events"
	"github.com/elysia/ecocycle/internal/modules/recommend"
	"github.com/elysia/ecocycle/pkg/formulas"
)

// DeviceAnalysis couples a device with its recommendation and the
// savings realized by following it.
type DeviceAnalysis struct {
	Device           domain.Device               `json:"device"`
	Result           domain.RecommendationResult `json:"result"`
	AnnualSavingsEUR float64                     `json:"annual_savings_eur"`
	CO2SavingsKg     float64                     `json:"co2_savings_kg"`
}

// Summary aggregates a whole fleet audit
type Summary struct {
	TotalDevices      int     `json:"total_devices"`
	KeepCount         int     `json:"keep_count"`
	NewCount          int     `json:"new_count"`
	RefurbCount       int     `json:"refurb_count"`
	HighUrgencyCount  int     `json:"high_urgency_count"`
	TotalSavingsEUR   float64 `json:"total_savings_eur"`
	TotalCO2SavingsKg float64 `json:"total_co2_savings_kg"`
	MeanSavingsEUR    float64 `json:"mean_savings_eur"`
	MedianSavingsEUR  float64 `json:"median_savings_eur"`
}

// Analyzer batch-scores a fleet of devices. Evaluations are
// independent and fan out across workers; the only shared state is the
// read-only catalog inside the engine.
type Analyzer struct {
	engine *recommend.Engine
	events *events.Manager
	log    zerolog.Logger
}

// NewAnalyzer creates a fleet analyzer
func NewAnalyzer(engine *recommend.Engine, ev *events.Manager, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		engine: engine,
		events: ev,
		log:    log.With().Str("service", "fleet").Logger(),
	}
}

// Analyze evaluates every device with the urgency override active.
// Results come back in input order. A failed device fails the batch:
// partial results are never reported as final.
func (a *Analyzer) Analyze(ctx context.Context, devices []domain.Device, weights domain.ScoringWeights) ([]DeviceAnalysis, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, domain.NewValidationError("devices", "must not be empty")
	}

	a.events.Emit(events.FleetAuditStarted, "fleet", map[string]interface{}{
		"device_count": len(devices),
	})

	analyses := make([]DeviceAnalysis, len(devices))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, device := range devices {
		i, device := i, device
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := a.engine.RecommendWithUrgencyOverride(device, weights)
			if err != nil {
				return err
			}
			analyses[i] = DeviceAnalysis{
				Device:           device,
				Result:           result,
				AnnualSavingsEUR: annualSavings(result),
				CO2SavingsKg:     co2Savings(result),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.events.EmitError("fleet", err, map[string]interface{}{"device_count": len(devices)})
		return nil, err
	}

	a.events.Emit(events.FleetAuditCompleted, "fleet", map[string]interface{}{
		"device_count": len(devices),
	})
	return analyses, nil
}

// Summarize aggregates a completed audit
func (a *Analyzer) Summarize(analyses []DeviceAnalysis) Summary {
	summary := Summary{TotalDevices: len(analyses)}
	savings := make([]float64, 0, len(analyses))

	for _, an := range analyses {
		switch an.Result.Recommendation {
		case domain.ScenarioKeep:
			summary.KeepCount++
		case domain.ScenarioBuyNew:
			summary.NewCount++
		case domain.ScenarioBuyRefurb:
			summary.RefurbCount++
		}
		if an.Result.Urgency == recommend.UrgencyHigh {
			summary.HighUrgencyCount++
		}
		summary.TotalSavingsEUR += an.AnnualSavingsEUR
		summary.TotalCO2SavingsKg += an.CO2SavingsKg
		savings = append(savings, an.AnnualSavingsEUR)
	}

	summary.TotalSavingsEUR = formulas.Round2(summary.TotalSavingsEUR)
	summary.TotalCO2SavingsKg = formulas.Round2(summary.TotalCO2SavingsKg)
	summary.MeanSavingsEUR = formulas.Round2(formulas.Mean(savings))
	summary.MedianSavingsEUR = formulas.Round2(formulas.Median(savings))
	return summary
}

// annualSavings is what following the recommendation saves against
// keeping the device, never negative (keeping is always allowed).
func annualSavings(result domain.RecommendationResult) float64 {
	keepTCO, bestTCO := 0.0, 0.0
	for _, opt := range result.Options {
		if opt.Scenario == domain.ScenarioKeep {
			keepTCO = opt.TCOEUR
		}
		if opt.Scenario == result.Recommendation {
			bestTCO = opt.TCOEUR
		}
	}
	return formulas.NonNegative(formulas.Round2(keepTCO - bestTCO))
}

// co2Savings compares the recommendation against the dirtiest option
func co2Savings(result domain.RecommendationResult) float64 {
	worstCO2, chosenCO2 := 0.0, 0.0
	for _, opt := range result.Options {
		if opt.CO2Kg > worstCO2 {
			worstCO2 = opt.CO2Kg
		}
		if opt.Scenario == result.Recommendation {
			chosenCO2 = opt.CO2Kg
		}
	}
	return formulas.NonNegative(formulas.Round2(worstCO2 - chosenCO2))
}
