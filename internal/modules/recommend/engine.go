package recommend

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/pkg/formulas"
)

// ReasonRefurbUnavailable is appended when the device class has no
// refurbished market.
const ReasonRefurbUnavailable = "refurbishment unavailable for device class"

// Engine produces the per-device KEEP / BUY_NEW / BUY_REFURBISHED
// decision. Stateless: every call is a pure function of the device,
// the weights, and the catalog snapshot.
type Engine struct {
	coster       *coster
	catalog      *catalog.Catalog
	lagThreshold float64
	log          zerolog.Logger
}

// Option configures the engine
type Option func(*Engine)

// WithLagThreshold overrides the lag-sensitivity exclusion threshold
// (default 2.0; the comparison is strict >).
func WithLagThreshold(threshold float64) Option {
	return func(e *Engine) { e.lagThreshold = threshold }
}

// NewEngine creates a recommendation engine
func NewEngine(cat *catalog.Catalog, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		coster:       &coster{catalog: cat},
		catalog:      cat,
		lagThreshold: 2.0,
		log:          log.With().Str("service", "recommend").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend evaluates one device. Two phases: the eligibility filter
// decides which scenarios compete, then min-max scoring across the
// surviving set picks the winner.
func (e *Engine) Recommend(device domain.Device, weights domain.ScoringWeights) (domain.RecommendationResult, error) {
	if err := weights.Validate(); err != nil {
		return domain.RecommendationResult{}, err
	}

	p, err := e.coster.resolve(device)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	// Phase 1: eligibility. Rules run in order; every triggered rule
	// records its reason even when an earlier one already excluded the
	// scenario.
	exclusions := []string{}
	if p.persona.LagSensitivity > e.lagThreshold {
		exclusions = append(exclusions, fmt.Sprintf(
			"persona lag sensitivity %.1f exceeds threshold %.1f", p.persona.LagSensitivity, e.lagThreshold))
	}
	if !p.class.RefurbAvailable {
		exclusions = append(exclusions, ReasonRefurbUnavailable)
	}

	scenarios := []domain.Scenario{domain.ScenarioKeep, domain.ScenarioBuyNew}
	if len(exclusions) == 0 {
		scenarios = append(scenarios, domain.ScenarioBuyRefurb)
	}

	// Phase 2: scoring
	options := e.scoreOptions(p, scenarios, weights)
	best := pickWinner(options)

	score, level, urgencyRationale := e.urgencyScore(p)
	result := domain.RecommendationResult{
		Recommendation:     best.Scenario,
		CompositeScore:     best.CompositeScore,
		FinancialScore:     best.FinancialScore,
		EnvironmentalScore: best.EnvironmentalScore,
		Options:            options,
		ExclusionReasons:   exclusions,
		Urgency:            level,
		UrgencyScore:       score,
		Rationale:          e.rationale(best, options, level, urgencyRationale),
	}

	e.log.Debug().
		Str("device_class", device.Class).
		Str("recommendation", string(result.Recommendation)).
		Float64("composite", result.CompositeScore).
		Msg("Recommendation issued")

	return result, nil
}

// RecommendWithUrgencyOverride behaves like Recommend but replaces a
// HIGH-urgency KEEP verdict with the best surviving replacement option.
// Fleet audits use this; the plain API never overrides the scoring.
func (e *Engine) RecommendWithUrgencyOverride(device domain.Device, weights domain.ScoringWeights) (domain.RecommendationResult, error) {
	result, err := e.Recommend(device, weights)
	if err != nil {
		return result, err
	}
	if result.Urgency != UrgencyHigh || result.Recommendation != domain.ScenarioKeep {
		return result, nil
	}

	var replacement *domain.OptionScore
	for i := range result.Options {
		opt := &result.Options[i]
		if opt.Scenario == domain.ScenarioKeep {
			continue
		}
		if replacement == nil || betterOption(*opt, *replacement) {
			replacement = opt
		}
	}
	if replacement != nil {
		result.Recommendation = replacement.Scenario
		result.CompositeScore = replacement.CompositeScore
		result.FinancialScore = replacement.FinancialScore
		result.EnvironmentalScore = replacement.EnvironmentalScore
		result.Rationale = "high urgency: device requires replacement due to age or performance"
	}
	return result, nil
}

// scoreOptions computes raw costs per scenario, normalizes each
// dimension across the surviving set, and applies the weights.
func (e *Engine) scoreOptions(p deviceProfile, scenarios []domain.Scenario, weights domain.ScoringWeights) []domain.OptionScore {
	rawTCO := make([]float64, len(scenarios))
	rawCO2 := make([]float64, len(scenarios))
	for i, sc := range scenarios {
		switch sc {
		case domain.ScenarioKeep:
			rawTCO[i] = e.coster.tcoKeep(p)
			rawCO2[i] = e.coster.co2Keep(p)
		case domain.ScenarioBuyNew:
			rawTCO[i] = e.coster.tcoNew(p)
			rawCO2[i] = e.coster.co2New(p)
		case domain.ScenarioBuyRefurb:
			rawTCO[i] = e.coster.tcoRefurb(p)
			rawCO2[i] = e.coster.co2Refurb(p)
		}
	}

	finScores := formulas.MinMaxCostScores(rawTCO)
	envScores := formulas.MinMaxCostScores(rawCO2)

	options := make([]domain.OptionScore, len(scenarios))
	for i, sc := range scenarios {
		options[i] = domain.OptionScore{
			Scenario:           sc,
			TCOEUR:             formulas.Round2(rawTCO[i]),
			CO2Kg:              formulas.Round2(rawCO2[i]),
			FinancialScore:     finScores[i],
			EnvironmentalScore: envScores[i],
			CompositeScore:     finScores[i]*weights.Financial + envScores[i]*weights.Environmental,
		}
	}
	return options
}

// betterOption reports whether a beats b: higher composite wins, exact
// ties fall to the lower-footprint scenario.
func betterOption(a, b domain.OptionScore) bool {
	if a.CompositeScore != b.CompositeScore {
		return a.CompositeScore > b.CompositeScore
	}
	return domain.TieBreakRank(a.Scenario) < domain.TieBreakRank(b.Scenario)
}

func pickWinner(options []domain.OptionScore) domain.OptionScore {
	best := options[0]
	for _, opt := range options[1:] {
		if betterOption(opt, best) {
			best = opt
		}
	}
	return best
}

func (e *Engine) rationale(best domain.OptionScore, options []domain.OptionScore, urgency, urgencyRationale string) string {
	var keep, refurb, buyNew *domain.OptionScore
	for i := range options {
		switch options[i].Scenario {
		case domain.ScenarioKeep:
			keep = &options[i]
		case domain.ScenarioBuyRefurb:
			refurb = &options[i]
		case domain.ScenarioBuyNew:
			buyNew = &options[i]
		}
	}

	switch best.Scenario {
	case domain.ScenarioKeep:
		return fmt.Sprintf("cost-effective to maintain; annual TCO EUR %.0f", best.TCOEUR)
	case domain.ScenarioBuyRefurb:
		if keep != nil && buyNew != nil && refurb != nil {
			return fmt.Sprintf("best value: saves EUR %.0f/year vs keeping and %.1f kg CO2/year vs new",
				keep.TCOEUR-refurb.TCOEUR, buyNew.CO2Kg-refurb.CO2Kg)
		}
		return "best balance of cost and carbon"
	default:
		if urgency == UrgencyHigh {
			return "new device recommended: " + urgencyRationale
		}
		return "new device recommended for optimal performance and reliability"
	}
}
