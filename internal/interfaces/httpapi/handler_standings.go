package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/rzldimam28/score-predictor/internal/domain/matchrecord"
	"github.com/rzldimam28/score-predictor/internal/usecase"
)

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	rows, err := h.standingsService.Table(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RefreshStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshStandings")
	defer span.End()

	rows, err := h.standingsService.Refresh(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"refreshed_at": time.Now().UTC(),
		"table":        items,
	})
}

func (h *Handler) IngestMatchRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestMatchRecords")
	defer span.End()

	var req ingestMatchRecordsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	records := make([]matchrecord.Record, 0, len(req.Records))
	for _, item := range req.Records {
		records = append(records, matchrecord.Record{
			PlayerID:        item.PlayerID,
			FixtureID:       item.FixtureID,
			Gameweek:        item.Gameweek,
			TeamID:          item.TeamID,
			OpponentTeamID:  item.OpponentTeamID,
			OpponentRank:    item.OpponentRank,
			Home:            item.Home,
			KickoffAt:       item.KickoffAt,
			Minutes:         item.Minutes,
			Goals:           item.Goals,
			Assists:         item.Assists,
			CleanSheet:      item.CleanSheet,
			GoalsConceded:   item.GoalsConceded,
			Saves:           item.Saves,
			PenaltiesSaved:  item.PenaltiesSaved,
			PenaltiesMissed: item.PenaltiesMissed,
			YellowCards:     item.YellowCards,
			RedCards:        item.RedCards,
			OwnGoals:        item.OwnGoals,
			BonusPoints:     item.BonusPoints,
			FantasyPoints:   item.FantasyPoints,
		})
	}

	if err := h.statsService.IngestRecords(ctx, records); err != nil {
		h.logger.WarnContext(ctx, "ingest match records failed", "records", len(records), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"count":   len(records),
		"updated": true,
	})
}
