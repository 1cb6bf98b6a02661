package prediction

import (
	"errors"
	"fmt"
)

var (
	ErrFormationBoundsOrder = errors.New("formation minimum exceeds maximum")
	ErrFormationUnfillable  = errors.New("formation bounds cannot produce eleven players")
)

// FormationRules bounds how many players of each outfield role a
// starting eleven may field. Exactly one goalkeeper is always required.
type FormationRules struct {
	MinDefenders   int
	MaxDefenders   int
	MinMidfielders int
	MaxMidfielders int
	MinForwards    int
	MaxForwards    int
}

func DefaultFormationRules() FormationRules {
	return FormationRules{
		MinDefenders:   3,
		MaxDefenders:   5,
		MinMidfielders: 2,
		MaxMidfielders: 5,
		MinForwards:    1,
		MaxForwards:    3,
	}
}

func (r FormationRules) Validate() error {
	pairs := []struct {
		role     string
		min, max int
	}{
		{"defenders", r.MinDefenders, r.MaxDefenders},
		{"midfielders", r.MinMidfielders, r.MaxMidfielders},
		{"forwards", r.MinForwards, r.MaxForwards},
	}
	for _, p := range pairs {
		if p.min < 0 || p.min > p.max {
			return fmt.Errorf("%w: %s %d..%d", ErrFormationBoundsOrder, p.role, p.min, p.max)
		}
	}

	minTotal := 1 + r.MinDefenders + r.MinMidfielders + r.MinForwards
	maxTotal := 1 + r.MaxDefenders + r.MaxMidfielders + r.MaxForwards
	if minTotal > 11 || maxTotal < 11 {
		return fmt.Errorf("%w: totals span %d..%d", ErrFormationUnfillable, minTotal, maxTotal)
	}

	return nil
}
