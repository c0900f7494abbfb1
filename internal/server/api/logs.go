package api

import (
	"net/http"
	"strconv"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

const defaultLogLimit = 50

type LogsHandler struct {
	audit storage.AuditStore
}

func NewLogsHandler(audit storage.AuditStore) *LogsHandler {
	return &LogsHandler{audit: audit}
}

func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondErrorJSON(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := h.audit.List(r.Context(), limit)
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to list audit logs")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	respondJSON(w, http.StatusOK, models.ListAuditLogsResponse{Logs: logs})
}
