package usecase

import (
	"math"
	"testing"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
)

func TestBlendRateDegeneratesToOverall(t *testing.T) {
	for _, weight := range []float64{0.5, 3, 10} {
		if got := blendRate(9.9, 0, 0.4, weight); got != 0.4 {
			t.Fatalf("weight %g: expected overall rate 0.4 with zero tier games, got %g", weight, got)
		}
	}
}

func TestBlendRateZeroPriorWeightTrustsTierEvidence(t *testing.T) {
	if got := blendRate(0.8, 3, 0.2, 0); got != 0.8 {
		t.Fatalf("expected pure tier rate 0.8 with zero prior weight, got %g", got)
	}
	// No tier sample and no prior still resolves to the overall rate.
	if got := blendRate(0.8, 0, 0.2, 0); got != 0.2 {
		t.Fatalf("expected overall rate 0.2 with no evidence at all, got %g", got)
	}
}

func TestBlendRateIdempotentOnConsistentRate(t *testing.T) {
	for _, games := range []int{1, 5, 20} {
		got := blendRate(0.6, games, 0.6, 4)
		if math.Abs(got-0.6) > 1e-12 {
			t.Fatalf("games %d: expected 0.6, got %g", games, got)
		}
	}
}

func TestBlendRateWeightsTierEvidenceBySampleSize(t *testing.T) {
	thin := blendRate(1.0, 1, 0.2, 4)
	thick := blendRate(1.0, 20, 0.2, 4)

	if thin <= 0.2 || thin >= thick {
		t.Fatalf("expected thin sample between prior and thick sample, got thin=%g thick=%g", thin, thick)
	}
	if thick >= 1.0 {
		t.Fatalf("blend must stay below the tier rate, got %g", thick)
	}
}

func TestRegressRatePullsTowardLeagueMean(t *testing.T) {
	got := regressRate(1.0, 0.2, 0.7)
	want := 0.2 + 0.8*0.7
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %g, got %g", want, got)
	}
}

func TestBonusProbabilityRegions(t *testing.T) {
	params := prediction.DefaultParams()
	mid := player.PositionMidfielder
	threshold := params.BonusThresholdFor(mid)

	if got := bonusProbability(threshold, 0.8, mid, params); got != 0.5 {
		t.Fatalf("expected 0.5 at the threshold, got %g", got)
	}
	if got := bonusProbability(2.0, 0.8, mid, params); got != 1.0 {
		t.Fatalf("expected probability capped at 1, got %g", got)
	}
	if got := bonusProbability(0.05, 0.8, mid, params); got != 0 {
		t.Fatalf("expected 0 far below the band, got %g", got)
	}

	// Inside the band the base rate scales down proportionally.
	inBand := bonusProbability(0.35, 0.8, mid, params)
	if inBand <= 0 || inBand >= 0.5 {
		t.Fatalf("expected in-band probability in (0, 0.5), got %g", inBand)
	}
	closer := bonusProbability(0.45, 0.8, mid, params)
	if closer <= inBand {
		t.Fatalf("expected probability to grow toward the threshold, got %g then %g", inBand, closer)
	}
}

func TestBonusProbabilityUsesRoleTable(t *testing.T) {
	params := prediction.DefaultParams()

	// 0.45 clears the goalkeeper threshold but sits below the forward
	// one, so the same metric lands in different regions per role.
	gk := bonusProbability(0.45, 0.8, player.PositionGoalkeeper, params)
	fwd := bonusProbability(0.45, 0.8, player.PositionForward, params)

	want := 0.5 + (0.45-params.BonusThresholdFor(player.PositionGoalkeeper))*params.BonusSlopeFor(player.PositionGoalkeeper)
	if math.Abs(gk-want) > 1e-12 {
		t.Fatalf("expected goalkeeper probability %g, got %g", want, gk)
	}
	if fwd >= 0.5 {
		t.Fatalf("expected forward metric below its threshold, got %g", fwd)
	}
	if gk <= fwd {
		t.Fatalf("expected role thresholds to separate probabilities: gk=%g fwd=%g", gk, fwd)
	}
}

func TestMinutesScaleFloorsShortCameos(t *testing.T) {
	if got := minutesScale(90, 70); math.Abs(got-70.0/90.0) > 1e-12 {
		t.Fatalf("expected 70/90 for a full-match regular, got %g", got)
	}
	if got := minutesScale(10, 70); got > 1.5 {
		t.Fatalf("expected cameo scale capped at 1.5, got %g", got)
	}
}

func TestConvertPointsAppliesRoleTable(t *testing.T) {
	rules := scoring.DefaultRules()
	ev := expectedEvents{
		goals:          0.5,
		assists:        0.2,
		cleanSheetProb: 0.4,
		prob60:         0.85,
		probShort:      0.10,
	}

	forward := convertPoints(ev, player.PositionForward, rules)
	defender := convertPoints(ev, player.PositionDefender, rules)

	if got := forward[scoring.EventGoals]; math.Abs(got-2.0) > 1e-12 {
		t.Fatalf("expected forward goals worth 2.0, got %g", got)
	}
	if got := defender[scoring.EventGoals]; math.Abs(got-3.0) > 1e-12 {
		t.Fatalf("expected defender goals worth 3.0, got %g", got)
	}
	if _, ok := forward[scoring.EventCleanSheet]; ok {
		t.Fatal("forwards earn no clean sheet points")
	}
	if got := defender[scoring.EventCleanSheet]; math.Abs(got-1.6) > 1e-12 {
		t.Fatalf("expected defender clean sheet worth 1.6, got %g", got)
	}
	if _, ok := forward[scoring.EventSaves]; ok {
		t.Fatal("only goalkeepers earn save points")
	}
	if _, ok := defender[scoring.EventGoalsConceded]; !ok {
		t.Fatal("defenders carry the conceded-goals deduction")
	}
}

func TestAppearanceSplitBands(t *testing.T) {
	p60, short := appearanceSplit(88)
	if p60 != 0.85 || short != 0.10 {
		t.Fatalf("expected nailed-on starter band, got %g/%g", p60, short)
	}
	p60, short = appearanceSplit(20)
	if p60 != 0.15 || short != 0.45 {
		t.Fatalf("expected rotation band, got %g/%g", p60, short)
	}
}
