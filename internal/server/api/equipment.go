package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lucasmateusli/equiptrack/internal/server/services"
	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type EquipmentHandler struct {
	equipmentService *services.EquipmentService
	labelService     *services.LabelService
}

func NewEquipmentHandler(equipmentService *services.EquipmentService, labelService *services.LabelService) *EquipmentHandler {
	return &EquipmentHandler{
		equipmentService: equipmentService,
		labelService:     labelService,
	}
}

func equipmentID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.EquipmentFilter{
		Search:       r.URL.Query().Get("search"),
		Status:       r.URL.Query().Get("status"),
		Empresa:      r.URL.Query().Get("empresa"),
		TechnicianID: r.URL.Query().Get("tecnico"),
	}

	items, err := h.equipmentService.List(r.Context(), filter)
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to list equipment")
		return
	}
	if items == nil {
		items = []models.Equipment{}
	}
	respondJSON(w, http.StatusOK, models.ListEquipmentResponse{Equipments: items})
}

func (h *EquipmentHandler) Import(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "missing authorization claims")
		return
	}

	var req models.ImportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inserted, invalid, err := h.equipmentService.Import(r.Context(), &req, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondErrorJSON(w, http.StatusNotFound, "technician not found")
		case errors.Is(err, storage.ErrDuplicate):
			respondErrorJSON(w, http.StatusConflict, "equipment already registered")
		default:
			respondErrorJSON(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	if len(invalid) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, models.InvalidLinesResponse{
			Error:        "invalid lines",
			InvalidLines: invalid,
		})
		return
	}
	respondJSON(w, http.StatusCreated, models.ImportResponse{Inserted: inserted})
}

func (h *EquipmentHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "missing authorization claims")
		return
	}

	id, err := equipmentID(r)
	if err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	var req models.ReserveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.equipmentService.Reserve(r.Context(), id, &req, claims.UserID); err != nil {
		respondStatusError(w, err, "equipment is no longer available")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": models.StatusReserved})
}

func (h *EquipmentHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.equipmentService.Release, "equipment is not reserved", models.StatusAvailable)
}

func (h *EquipmentHandler) MarkUsed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.equipmentService.MarkUsed, "equipment is not available", models.StatusUsed)
}

func (h *EquipmentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.equipmentService.Reset, "equipment is not marked as used", models.StatusAvailable)
}

func (h *EquipmentHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id, userID uuid.UUID) error,
	conflictMsg, resultStatus string,
) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "missing authorization claims")
		return
	}

	id, err := equipmentID(r)
	if err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	if err := apply(r.Context(), id, claims.UserID); err != nil {
		respondStatusError(w, err, conflictMsg)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": resultStatus})
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "missing authorization claims")
		return
	}

	id, err := equipmentID(r)
	if err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	if err := h.equipmentService.Delete(r.Context(), id, claims.UserID); err != nil {
		respondStatusError(w, err, "equipment changed by someone else")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *EquipmentHandler) Label(w http.ResponseWriter, r *http.Request) {
	id, err := equipmentID(r)
	if err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := h.labelService.RenderPNG(r.Context(), id, size)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondErrorJSON(w, http.StatusNotFound, "equipment not found")
			return
		}
		respondErrorJSON(w, http.StatusInternalServerError, "failed to render label")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *EquipmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.equipmentService.Stats(r.Context())
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// respondStatusError maps storage sentinels onto HTTP statuses; anything
// else from a state transition is treated as a bad request.
func respondStatusError(w http.ResponseWriter, err error, conflictMsg string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondErrorJSON(w, http.StatusNotFound, "equipment not found")
	case errors.Is(err, storage.ErrConflict):
		respondErrorJSON(w, http.StatusConflict, conflictMsg)
	default:
		respondErrorJSON(w, http.StatusBadRequest, err.Error())
	}
}
