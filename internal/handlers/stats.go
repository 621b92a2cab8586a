package handlers

import (
	"net/http"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
)

// StatsHandler serves the admin dashboard counters.
type StatsHandler struct {
	logger *common.Logger
	stats  interfaces.StatsStore
}

func NewStatsHandler(logger *common.Logger, stats interfaces.StatsStore) *StatsHandler {
	return &StatsHandler{logger: logger, stats: stats}
}

// ServeHTTP handles GET /api/admin/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to read stats")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Failed to get stats")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}
