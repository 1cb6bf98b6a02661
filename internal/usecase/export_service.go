package usecase

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
)

// ExportService renders persisted projection reports as newline
// delimited JSON, one forecast per line, for spreadsheet and notebook
// workflows.
type ExportService struct {
	reportRepo prediction.Repository
}

func NewExportService(reportRepo prediction.Repository) *ExportService {
	return &ExportService{reportRepo: reportRepo}
}

type exportLine struct {
	ReportID        string                    `json:"report_id"`
	Gameweek        int                       `json:"gameweek"`
	PlayerID        string                    `json:"player_id"`
	PlayerName      string                    `json:"player_name"`
	Position        string                    `json:"position"`
	OpponentTeamID  string                    `json:"opponent_team_id"`
	OpponentTier    int                       `json:"opponent_tier"`
	Home            bool                      `json:"home"`
	ExpectedPoints  float64                   `json:"expected_points"`
	Confidence      float64                   `json:"confidence"`
	ConfidenceLabel string                    `json:"confidence_label"`
	SampleGames     int                       `json:"sample_games"`
	LeagueAverage   bool                      `json:"league_average"`
	Breakdown       map[scoring.Event]float64 `json:"breakdown"`
}

// ExportReport streams one report's forecasts as NDJSON bytes.
func (s *ExportService) ExportReport(ctx context.Context, reportID string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "ExportService.ExportReport")
	defer span.End()

	if reportID == "" {
		return nil, fmt.Errorf("%w: report id is required", ErrInvalidInput)
	}

	report, ok, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", reportID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: report %s", ErrNotFound, reportID)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, f := range report.Forecasts {
		line, err := sonic.Marshal(exportLine{
			ReportID:        report.ID,
			Gameweek:        report.Gameweek,
			PlayerID:        f.PlayerID,
			PlayerName:      f.PlayerName,
			Position:        string(f.Position),
			OpponentTeamID:  f.OpponentTeamID,
			OpponentTier:    f.OpponentTier,
			Home:            f.Home,
			ExpectedPoints:  f.ExpectedPoints,
			Confidence:      f.Confidence,
			ConfidenceLabel: f.ConfidenceLabel,
			SampleGames:     f.SampleGames,
			LeagueAverage:   f.LeagueAverage,
			Breakdown:       f.Breakdown,
		})
		if err != nil {
			return nil, fmt.Errorf("encode forecast for player %s: %w", f.PlayerID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}
