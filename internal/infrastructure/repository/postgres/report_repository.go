package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
)

// ReportRepository persists projection reports with the forecast list
// stored as a JSONB document; reports are read back whole, never
// queried per forecast.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const insertReport = `
INSERT INTO prediction_reports (id, gameweek, created_at, forecasts)
VALUES (:id, :gameweek, :created_at, :forecasts)
ON CONFLICT (id) DO UPDATE SET
	gameweek = EXCLUDED.gameweek,
	created_at = EXCLUDED.created_at,
	forecasts = EXCLUDED.forecasts`

const selectReportByID = `
SELECT id, gameweek, created_at, forecasts
FROM prediction_reports
WHERE id = $1`

const selectReportsByGameweek = `
SELECT id, gameweek, created_at, forecasts
FROM prediction_reports
WHERE gameweek = $1
ORDER BY created_at DESC`

func (r *ReportRepository) Save(ctx context.Context, report prediction.Report) error {
	forecasts, err := sonic.Marshal(report.Forecasts)
	if err != nil {
		return fmt.Errorf("encode forecasts for report %s: %w", report.ID, err)
	}

	model := reportTableModel{
		ID:        report.ID,
		Gameweek:  report.Gameweek,
		CreatedAt: report.CreatedAt,
		Forecasts: forecasts,
	}
	if _, err := r.db.NamedExecContext(ctx, insertReport, model); err != nil {
		return fmt.Errorf("insert report %s: %w", report.ID, err)
	}

	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, reportID string) (prediction.Report, bool, error) {
	var row reportTableModel
	if err := r.db.GetContext(ctx, &row, selectReportByID, reportID); err != nil {
		if isNotFound(err) {
			return prediction.Report{}, false, nil
		}
		return prediction.Report{}, false, fmt.Errorf("select report %s: %w", reportID, err)
	}

	report, err := toReport(row)
	if err != nil {
		return prediction.Report{}, false, err
	}

	return report, true, nil
}

func (r *ReportRepository) ListByGameweek(ctx context.Context, gameweek int) ([]prediction.Report, error) {
	var rows []reportTableModel
	if err := r.db.SelectContext(ctx, &rows, selectReportsByGameweek, gameweek); err != nil {
		return nil, fmt.Errorf("select reports for gameweek %d: %w", gameweek, err)
	}

	out := make([]prediction.Report, 0, len(rows))
	for _, row := range rows {
		report, err := toReport(row)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}

	return out, nil
}

func toReport(row reportTableModel) (prediction.Report, error) {
	report := prediction.Report{
		ID:        row.ID,
		Gameweek:  row.Gameweek,
		CreatedAt: row.CreatedAt,
	}
	if len(row.Forecasts) > 0 {
		if err := sonic.Unmarshal(row.Forecasts, &report.Forecasts); err != nil {
			return prediction.Report{}, fmt.Errorf("decode forecasts for report %s: %w", row.ID, err)
		}
	}

	return report, nil
}
