package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/rzldimam28/score-predictor/internal/usecase"
)

func (h *Handler) OptimalLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OptimalLineup")
	defer span.End()

	var req optimalLineupRequest
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

	lineup, err := h.lineupService.OptimalFromSquad(ctx, toSquadInputs(req.Players))
	if err != nil {
		h.logger.WarnContext(ctx, "optimal lineup failed", "players", len(req.Players), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(lineup))
}
