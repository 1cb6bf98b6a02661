package teamstats

// Split is one team's aggregate record against a single opponent
// strength tier.
type Split struct {
	Games        int
	GoalsFor     int
	GoalsAgainst int
	CleanSheets  int
}

// GoalsForPerGame is goals scored per fixture in this split.
func (s Split) GoalsForPerGame() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.GoalsFor) / float64(s.Games)
}

// GoalsAgainstPerGame is goals conceded per fixture in this split.
func (s Split) GoalsAgainstPerGame() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.GoalsAgainst) / float64(s.Games)
}

// CleanSheetRate is the share of fixtures kept without conceding.
func (s Split) CleanSheetRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.CleanSheets) / float64(s.Games)
}

// Profile is the tier-conditioned view of one team's season,
// reconstructed from its players' match records.
type Profile struct {
	TeamID  string
	Overall Split
	PerTier map[int]Split
}

// SplitFor returns the record against one tier and whether any
// fixtures were played against it.
func (p Profile) SplitFor(tier int) (Split, bool) {
	s, ok := p.PerTier[tier]
	return s, ok
}
