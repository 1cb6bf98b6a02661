package usecase

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
	"github.com/rzldimam28/score-predictor/internal/infrastructure/repository/memory"
)

func TestExportReportRendersNDJSON(t *testing.T) {
	reports := memory.NewReportRepository()
	report := prediction.Report{
		ID:        "rep-1",
		Gameweek:  14,
		CreatedAt: time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC),
		Forecasts: []prediction.PlayerForecast{
			{
				PlayerID:        "p1",
				PlayerName:      "Striker",
				Position:        player.PositionForward,
				OpponentTeamID:  "team-b",
				ExpectedPoints:  6.2,
				ConfidenceLabel: prediction.ConfidenceHigh,
				Breakdown:       map[scoring.Event]float64{scoring.EventGoals: 2.4},
			},
			{
				PlayerID:        "p2",
				PlayerName:      "Keeper",
				Position:        player.PositionGoalkeeper,
				OpponentTeamID:  "team-b",
				ExpectedPoints:  4.0,
				ConfidenceLabel: prediction.ConfidenceMedium,
			},
		},
	}
	if err := reports.Save(t.Context(), report); err != nil {
		t.Fatalf("seed report: %v", err)
	}

	svc := NewExportService(reports)

	out, err := svc.ExportReport(t.Context(), "rep-1")
	if err != nil {
		t.Fatalf("ExportReport returned error: %v", err)
	}

	lines := bytes.Split(bytes.TrimRight(out, "\n"), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 NDJSON lines, got %d", len(lines))
	}

	var first exportLine
	if err := sonic.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("decode first line: %v", err)
	}
	if first.ReportID != "rep-1" || first.PlayerID != "p1" || first.Gameweek != 14 {
		t.Fatalf("unexpected first line: %+v", first)
	}
	if first.Breakdown[scoring.EventGoals] != 2.4 {
		t.Fatalf("expected breakdown to survive export, got %+v", first.Breakdown)
	}
}

func TestExportReportUnknownID(t *testing.T) {
	svc := NewExportService(memory.NewReportRepository())

	if _, err := svc.ExportReport(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ExportReport(t.Context(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
