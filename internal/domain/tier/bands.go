package tier

import (
	"errors"
	"fmt"
)

var (
	ErrNoBands          = errors.New("no tier bands configured")
	ErrBandRankOrder    = errors.New("tier band rank range is inverted")
	ErrBandGap          = errors.New("tier bands must cover ranks without gaps")
	ErrBandOverlap      = errors.New("tier bands must not overlap")
	ErrBandTierSequence = errors.New("tier numbers must be sequential starting at 1")
	ErrBandFirstRank    = errors.New("tier bands must start at rank 1")
)

// Band maps a contiguous run of table positions to one strength tier.
type Band struct {
	Tier    int
	MinRank int
	MaxRank int
}

// Bands is an ordered set of strength bands covering the league table.
// Tier 1 holds the strongest sides (top of the table).
type Bands []Band

func DefaultBands() Bands {
	return Bands{
		{Tier: 1, MinRank: 1, MaxRank: 4},
		{Tier: 2, MinRank: 5, MaxRank: 8},
		{Tier: 3, MinRank: 9, MaxRank: 12},
		{Tier: 4, MinRank: 13, MaxRank: 16},
		{Tier: 5, MinRank: 17, MaxRank: 20},
	}
}

func (b Bands) Validate() error {
	if len(b) == 0 {
		return ErrNoBands
	}
	if b[0].MinRank != 1 {
		return fmt.Errorf("%w: got %d", ErrBandFirstRank, b[0].MinRank)
	}

	for i, band := range b {
		if band.Tier != i+1 {
			return fmt.Errorf("%w: band %d is tier %d", ErrBandTierSequence, i, band.Tier)
		}
		if band.MinRank > band.MaxRank {
			return fmt.Errorf("%w: tier %d spans %d..%d", ErrBandRankOrder, band.Tier, band.MinRank, band.MaxRank)
		}
		if i == 0 {
			continue
		}
		prev := b[i-1]
		if band.MinRank > prev.MaxRank+1 {
			return fmt.Errorf("%w: ranks %d..%d uncovered", ErrBandGap, prev.MaxRank+1, band.MinRank-1)
		}
		if band.MinRank <= prev.MaxRank {
			return fmt.Errorf("%w: tier %d begins at rank %d inside tier %d", ErrBandOverlap, band.Tier, band.MinRank, prev.Tier)
		}
	}

	return nil
}

// Classify maps a league rank onto its strength tier. Ranks outside the
// configured range clamp to the nearest band so a mid-season table with
// fewer or extra rows still classifies.
func (b Bands) Classify(rank int) int {
	if len(b) == 0 {
		return 0
	}
	if rank <= b[0].MaxRank {
		return b[0].Tier
	}
	last := b[len(b)-1]
	if rank >= last.MinRank {
		return last.Tier
	}
	for _, band := range b[1 : len(b)-1] {
		if rank >= band.MinRank && rank <= band.MaxRank {
			return band.Tier
		}
	}

	// Unreachable for validated bands; clamp down as a safety net.
	return last.Tier
}

// Count reports how many strength tiers are configured.
func (b Bands) Count() int {
	return len(b)
}
