package api

import (
	"errors"
	"net/http"

	"github.com/lucasmateusli/equiptrack/internal/server/services"
	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type AgendaHandler struct {
	agendaService *services.AgendaService
}

func NewAgendaHandler(agendaService *services.AgendaService) *AgendaHandler {
	return &AgendaHandler{agendaService: agendaService}
}

func (h *AgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.agendaService.List(r.Context())
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to list agenda")
		return
	}
	if entries == nil {
		entries = []models.AgendaEntry{}
	}
	respondJSON(w, http.StatusOK, models.ListAgendaResponse{Agenda: entries})
}

func (h *AgendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var entry models.AgendaEntry
	if err := decodeJSON(r, &entry); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.agendaService.CreateEntry(r.Context(), &entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondErrorJSON(w, http.StatusNotFound, "technician not found")
			return
		}
		respondErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *AgendaHandler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	techs, err := h.agendaService.ListTechnicians(r.Context())
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to list technicians")
		return
	}
	if techs == nil {
		techs = []models.Technician{}
	}
	respondJSON(w, http.StatusOK, models.ListTechniciansResponse{Technicians: techs})
}
