package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/rzldimam28/score-predictor/internal/usecase"
)

func (h *Handler) PredictPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	opponentTeamID := strings.TrimSpace(r.URL.Query().Get("opponent_team_id"))

	home := false
	if raw := strings.TrimSpace(r.URL.Query().Get("home")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid home flag %q", usecase.ErrInvalidInput, raw))
			return
		}
		home = parsed
	}

	forecast, err := h.predictionService.Predict(ctx, playerID, opponentTeamID, home)
	if err != nil {
		h.logger.WarnContext(ctx, "predict player failed", "player_id", playerID, "opponent_team_id", opponentTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, forecastToDTO(forecast))
}

func (h *Handler) PredictSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictSquad")
	defer span.End()

	var req predictSquadRequest
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

	forecasts, err := h.predictionService.PredictSquad(ctx, toSquadInputs(req.Players))
	if err != nil {
		h.logger.WarnContext(ctx, "predict squad failed", "players", len(req.Players), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, forecastsToDTO(forecasts))
}

func (h *Handler) BuildReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuildReport")
	defer span.End()

	var req buildReportRequest
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

	report, err := h.predictionService.BuildReport(ctx, req.Gameweek, toSquadInputs(req.Players))
	if err != nil {
		h.logger.WarnContext(ctx, "build report failed", "gameweek", req.Gameweek, "players", len(req.Players), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, reportToDTO(report))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetReport")
	defer span.End()

	reportID := strings.TrimSpace(r.PathValue("reportID"))
	report, err := h.predictionService.GetReport(ctx, reportID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(report))
}

func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportReport")
	defer span.End()

	reportID := strings.TrimSpace(r.PathValue("reportID"))
	payload, err := h.exportService.ExportReport(ctx, reportID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename="report-`+reportID+`.ndjson"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
