package standings

import (
	"strings"

	"github.com/rzldimam28/score-predictor/internal/domain/standing"
)

type tableEnvelope struct {
	Table []tableRow `json:"table"`
}

type tableRow struct {
	TeamID       string `json:"team_id"`
	Rank         int    `json:"rank"`
	Position     int    `json:"position"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Draw         int    `json:"draw"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Points       int    `json:"points"`
}

func (r tableRow) toDomain() standing.Row {
	rank := r.Rank
	if rank <= 0 {
		rank = r.Position
	}
	return standing.Row{
		TeamID:       strings.TrimSpace(r.TeamID),
		Rank:         rank,
		Played:       r.Played,
		Won:          r.Won,
		Draw:         r.Draw,
		Lost:         r.Lost,
		GoalsFor:     r.GoalsFor,
		GoalsAgainst: r.GoalsAgainst,
		Points:       r.Points,
	}
}
