package scoring

import (
	"errors"
	"fmt"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
)

var (
	ErrMissingPositionRule  = errors.New("scoring rule missing for position")
	ErrInvalidSavesPerPoint = errors.New("saves per point must be greater than zero")
)

// Event identifies a scoring category contributing to a player's total.
type Event string

const (
	EventAppearance    Event = "appearance"
	EventGoals         Event = "goals"
	EventAssists       Event = "assists"
	EventCleanSheet    Event = "clean_sheet"
	EventSaves         Event = "saves"
	EventPenaltySave   Event = "penalty_save"
	EventGoalsConceded Event = "goals_conceded"
	EventYellowCard    Event = "yellow_card"
	EventRedCard       Event = "red_card"
	EventOwnGoal       Event = "own_goal"
	EventPenaltyMiss   Event = "penalty_miss"
	EventBonus         Event = "bonus"
)

// Rules stores the role-aware points table applied to match events.
type Rules struct {
	GoalPoints       map[player.Position]int
	CleanSheetPoints map[player.Position]int
	AssistPoints     int
	// Appearance points split at the hour mark: a short cameo earns
	// ShortAppearancePoints, sixty minutes or more earns FullAppearancePoints.
	ShortAppearancePoints int
	FullAppearancePoints  int
	SavesPerPoint         int
	PenaltySavePoints     int
	// GoalsConcededPenalty is applied once per two goals conceded and only
	// to goalkeepers and defenders.
	GoalsConcededPenalty int
	YellowCardPoints     int
	RedCardPoints        int
	OwnGoalPoints        int
	PenaltyMissPoints    int
}

func DefaultRules() Rules {
	return Rules{
		GoalPoints: map[player.Position]int{
			player.PositionGoalkeeper: 6,
			player.PositionDefender:   6,
			player.PositionMidfielder: 5,
			player.PositionForward:    4,
		},
		CleanSheetPoints: map[player.Position]int{
			player.PositionGoalkeeper: 4,
			player.PositionDefender:   4,
			player.PositionMidfielder: 1,
			player.PositionForward:    0,
		},
		AssistPoints:          3,
		ShortAppearancePoints: 1,
		FullAppearancePoints:  2,
		SavesPerPoint:         3,
		PenaltySavePoints:     5,
		GoalsConcededPenalty:  -1,
		YellowCardPoints:      -1,
		RedCardPoints:         -3,
		OwnGoalPoints:         -2,
		PenaltyMissPoints:     -2,
	}
}

func (r Rules) Validate() error {
	for pos := range player.AllPositions {
		if _, ok := r.GoalPoints[pos]; !ok {
			return fmt.Errorf("%w: goal points for %s", ErrMissingPositionRule, pos)
		}
		if _, ok := r.CleanSheetPoints[pos]; !ok {
			return fmt.Errorf("%w: clean sheet points for %s", ErrMissingPositionRule, pos)
		}
	}
	if r.SavesPerPoint <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSavesPerPoint, r.SavesPerPoint)
	}

	return nil
}

// GoalPointsFor returns the goal value for a position.
func (r Rules) GoalPointsFor(pos player.Position) int {
	return r.GoalPoints[pos]
}

// CleanSheetPointsFor returns the clean sheet value for a position.
func (r Rules) CleanSheetPointsFor(pos player.Position) int {
	return r.CleanSheetPoints[pos]
}

// ConcedesCountAgainst reports whether goals conceded deduct points
// for the given position.
func (r Rules) ConcedesCountAgainst(pos player.Position) bool {
	return pos == player.PositionGoalkeeper || pos == player.PositionDefender
}
