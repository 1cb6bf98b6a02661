package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/rzldimam28/score-predictor/internal/usecase"
)

func (h *Handler) WinProbability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WinProbability")
	defer span.End()

	var req winProbabilityRequest
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

	matchup, homeLineup, awayLineup, err := h.matchupService.CompareSquads(ctx, toSquadInputs(req.Home), toSquadInputs(req.Away))
	if err != nil {
		h.logger.WarnContext(ctx, "compare squads failed", "home_players", len(req.Home), "away_players", len(req.Away), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"matchup": matchupToDTO(matchup),
		"home":    lineupToDTO(homeLineup),
		"away":    lineupToDTO(awayLineup),
	})
}
