package memory

import (
	"context"
	"sync"

	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
)

type ReportRepository struct {
	mu      sync.RWMutex
	reports map[string]prediction.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		reports: make(map[string]prediction.Report),
	}
}

func (r *ReportRepository) Save(_ context.Context, report prediction.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports[report.ID] = report
	return nil
}

func (r *ReportRepository) GetByID(_ context.Context, reportID string) (prediction.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[reportID]
	return report, ok, nil
}

func (r *ReportRepository) ListByGameweek(_ context.Context, gameweek int) ([]prediction.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Report, 0)
	for _, report := range r.reports {
		if report.Gameweek == gameweek {
			out = append(out, report)
		}
	}

	return out, nil
}
