package prediction

import (
	"errors"
	"testing"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
)

func TestDefaultParams_Valid(t *testing.T) {
	t.Parallel()

	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params should validate, got %v", err)
	}
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	t.Run("zero prior weight is allowed", func(t *testing.T) {
		params := DefaultParams()
		params.PriorWeight = 0
		if err := params.Validate(); err != nil {
			t.Fatalf("zero prior weight should validate, got %v", err)
		}
	})

	t.Run("negative prior weight", func(t *testing.T) {
		params := DefaultParams()
		params.PriorWeight = -1
		if err := params.Validate(); !errors.Is(err, ErrInvalidPriorWeight) {
			t.Fatalf("got %v, want ErrInvalidPriorWeight", err)
		}
	})

	t.Run("missing bonus threshold", func(t *testing.T) {
		params := DefaultParams()
		delete(params.BonusThresholds, player.PositionForward)
		if err := params.Validate(); !errors.Is(err, ErrMissingBonusRule) {
			t.Fatalf("got %v, want ErrMissingBonusRule", err)
		}
	})

	t.Run("missing bonus slope", func(t *testing.T) {
		params := DefaultParams()
		delete(params.BonusSlopes, player.PositionGoalkeeper)
		if err := params.Validate(); !errors.Is(err, ErrMissingBonusRule) {
			t.Fatalf("got %v, want ErrMissingBonusRule", err)
		}
	})

	t.Run("non-positive bonus threshold", func(t *testing.T) {
		params := DefaultParams()
		params.BonusThresholds[player.PositionMidfielder] = 0
		if err := params.Validate(); !errors.Is(err, ErrInvalidBonusThreshold) {
			t.Fatalf("got %v, want ErrInvalidBonusThreshold", err)
		}
	})

	t.Run("non-positive bonus slope", func(t *testing.T) {
		params := DefaultParams()
		params.BonusSlopes[player.PositionDefender] = -0.1
		if err := params.Validate(); !errors.Is(err, ErrInvalidBonusSlope) {
			t.Fatalf("got %v, want ErrInvalidBonusSlope", err)
		}
	})

	t.Run("negative outlier sigma", func(t *testing.T) {
		params := DefaultParams()
		params.OutlierSigma = -2
		if err := params.Validate(); !errors.Is(err, ErrInvalidOutlierSigma) {
			t.Fatalf("got %v, want ErrInvalidOutlierSigma", err)
		}
	})
}
