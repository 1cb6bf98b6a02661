package prediction

import (
	"errors"
	"fmt"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
)

var (
	ErrInvalidPriorWeight    = errors.New("prior weight cannot be negative")
	ErrInvalidMinMinutes     = errors.New("minimum minutes must be greater than zero")
	ErrInvalidMinSample      = errors.New("minimum sample games must be greater than zero")
	ErrInvalidMultiplierCap  = errors.New("multiplier bounds are inverted")
	ErrInvalidExpectedMins   = errors.New("expected minutes must be within 1..90")
	ErrMissingBonusRule      = errors.New("bonus rule missing for position")
	ErrInvalidBonusThreshold = errors.New("bonus threshold must be greater than zero")
	ErrInvalidBonusSlope     = errors.New("bonus slope must be greater than zero")
	ErrInvalidBonusBand      = errors.New("bonus band cannot be negative")
	ErrInvalidBonusCap       = errors.New("bonus cap cannot be negative")
	ErrInvalidOutlierSigma   = errors.New("outlier sigma cannot be negative")
	ErrInvalidFormWeight     = errors.New("form weight must be within 0..1")
	ErrInvalidRegression     = errors.New("regression factor must be within 0..1")
	ErrInvalidSigmaConfig    = errors.New("outcome sigma configuration must be positive")
)

// Params carries every tunable knob of the projection engine. The zero
// value is unusable; start from DefaultParams.
type Params struct {
	// MinMinutes is the appearance floor below which a match does not
	// count toward per-game rates.
	MinMinutes int
	// CleanSheetMinutes is the minimum time on pitch for a clean sheet
	// to credit the player.
	CleanSheetMinutes int
	// MinSampleGames is the smallest qualifying sample that avoids the
	// league-average fallback.
	MinSampleGames int
	// PriorWeight is the pseudo-game count anchoring tier rates to the
	// player's overall rate. Zero trusts tier evidence alone.
	PriorWeight float64
	// ExpectedMinutes scales per-90 event rates for the projected match.
	ExpectedMinutes float64
	// MultiplierFloor and MultiplierCeil clamp opponent and venue
	// multipliers before they touch a rate.
	MultiplierFloor float64
	MultiplierCeil  float64
	// HomeBoost and AwayFade adjust attacking output by venue.
	// Assist variants are slightly narrower.
	HomeBoost       float64
	AwayFade        float64
	HomeAssistBoost float64
	AwayAssistFade  float64
	// BonusThresholds and BonusSlopes shape the bonus award model per
	// position: above the position's threshold the award probability
	// grows linearly at its slope. Metrics inside BonusBand below the
	// threshold scale down from the player's historical rate; anything
	// further below scores zero. BonusCap bounds the resulting point
	// expectation.
	BonusThresholds map[player.Position]float64
	BonusSlopes     map[player.Position]float64
	BonusBand       float64
	BonusCap        float64
	// OutlierSigma caps single-game point hauls at this many standard
	// deviations from the player's mean before they feed the form
	// window. Zero disables the cap.
	OutlierSigma float64
	// FormWeight blends the recent-game exponential average into the
	// final expectation; RecentGames is the window size.
	FormWeight  float64
	RecentGames int
	// RegressionFactor pulls small-sample rates toward the league mean.
	RegressionFactor float64
	// BaseSigma and the per-confidence penalties shape the score spread
	// used by the win probability model.
	BaseSigma               float64
	HighConfidencePenalty   float64
	MediumConfidencePenalty float64
	LowConfidencePenalty    float64
}

func DefaultParams() Params {
	return Params{
		MinMinutes:        10,
		CleanSheetMinutes: 60,
		MinSampleGames:    2,
		PriorWeight:       4.0,
		ExpectedMinutes:   70,
		MultiplierFloor:   0.5,
		MultiplierCeil:    2.0,
		HomeBoost:         1.10,
		AwayFade:          0.90,
		HomeAssistBoost:   1.08,
		AwayAssistFade:    0.92,
		BonusThresholds: map[player.Position]float64{
			player.PositionGoalkeeper: 0.4,
			player.PositionDefender:   0.4,
			player.PositionMidfielder: 0.5,
			player.PositionForward:    0.6,
		},
		BonusSlopes: map[player.Position]float64{
			player.PositionGoalkeeper: 0.5,
			player.PositionDefender:   0.5,
			player.PositionMidfielder: 0.5,
			player.PositionForward:    0.6,
		},
		BonusBand:               0.3,
		BonusCap:                3.0,
		OutlierSigma:            2.0,
		FormWeight:              0.4,
		RecentGames:             5,
		RegressionFactor:        0.7,
		BaseSigma:               6.0,
		HighConfidencePenalty:   0.2,
		MediumConfidencePenalty: 0.5,
		LowConfidencePenalty:    1.0,
	}
}

func (p Params) Validate() error {
	if p.MinMinutes <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMinMinutes, p.MinMinutes)
	}
	if p.MinSampleGames <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMinSample, p.MinSampleGames)
	}
	if p.PriorWeight < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidPriorWeight, p.PriorWeight)
	}
	if p.ExpectedMinutes < 1 || p.ExpectedMinutes > 90 {
		return fmt.Errorf("%w: got %g", ErrInvalidExpectedMins, p.ExpectedMinutes)
	}
	if p.MultiplierFloor <= 0 || p.MultiplierCeil < p.MultiplierFloor {
		return fmt.Errorf("%w: floor=%g ceil=%g", ErrInvalidMultiplierCap, p.MultiplierFloor, p.MultiplierCeil)
	}
	for pos := range player.AllPositions {
		threshold, ok := p.BonusThresholds[pos]
		if !ok {
			return fmt.Errorf("%w: bonus threshold for %s", ErrMissingBonusRule, pos)
		}
		if threshold <= 0 {
			return fmt.Errorf("%w: %s got %g", ErrInvalidBonusThreshold, pos, threshold)
		}
		slope, ok := p.BonusSlopes[pos]
		if !ok {
			return fmt.Errorf("%w: bonus slope for %s", ErrMissingBonusRule, pos)
		}
		if slope <= 0 {
			return fmt.Errorf("%w: %s got %g", ErrInvalidBonusSlope, pos, slope)
		}
	}
	if p.BonusBand < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidBonusBand, p.BonusBand)
	}
	if p.BonusCap < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidBonusCap, p.BonusCap)
	}
	if p.OutlierSigma < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidOutlierSigma, p.OutlierSigma)
	}
	if p.FormWeight < 0 || p.FormWeight > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidFormWeight, p.FormWeight)
	}
	if p.RegressionFactor < 0 || p.RegressionFactor > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidRegression, p.RegressionFactor)
	}
	if p.BaseSigma <= 0 || p.HighConfidencePenalty < 0 || p.MediumConfidencePenalty < 0 || p.LowConfidencePenalty < 0 {
		return fmt.Errorf("%w: base=%g", ErrInvalidSigmaConfig, p.BaseSigma)
	}

	return nil
}

// BonusThresholdFor returns the bonus metric threshold for a position.
func (p Params) BonusThresholdFor(pos player.Position) float64 {
	return p.BonusThresholds[pos]
}

// BonusSlopeFor returns the bonus probability slope for a position.
func (p Params) BonusSlopeFor(pos player.Position) float64 {
	return p.BonusSlopes[pos]
}
