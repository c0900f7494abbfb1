package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type EquipmentService struct {
	store      storage.Store
	statsCache *StatsCache
}

func NewEquipmentService(store storage.Store) *EquipmentService {
	return &EquipmentService{
		store:      store,
		statsCache: NewStatsCache(10 * time.Second),
	}
}

func (s *EquipmentService) List(ctx context.Context, filter EquipmentFilter) ([]models.Equipment, error) {
	items, err := s.store.Equipment().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return FilterEquipment(items, filter), nil
}

func (s *EquipmentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	item, err := s.store.Equipment().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return item, nil
}

// Import validates the pasted lines and inserts them all or none. The
// returned slice holds the 1-based invalid line numbers when validation
// fails; in that case nothing is inserted and err is nil.
func (s *EquipmentService) Import(ctx context.Context, req *models.ImportRequest, userID uuid.UUID) (int, []int, error) {
	if !models.IsValidEmpresa(req.Empresa) {
		return 0, nil, fmt.Errorf("invalid empresa: %s", req.Empresa)
	}

	var techID *uuid.UUID
	if req.TecnicoID != nil && *req.TecnicoID != "" {
		parsed, err := uuid.Parse(*req.TecnicoID)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid tecnico_id: %s", *req.TecnicoID)
		}
		tech, err := s.store.Technicians().GetByID(ctx, parsed)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to look up technician: %w", err)
		}
		if tech == nil {
			return 0, nil, storage.ErrNotFound
		}
		techID = &parsed
	}

	existingIMEI, existingICCID, err := s.store.Equipment().ExistingIdentifiers(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load existing identifiers: %w", err)
	}

	lines, invalid := ParseBulkLines(req.Text, existingIMEI, existingICCID)
	if len(invalid) > 0 {
		return 0, invalid, nil
	}
	if len(lines) == 0 {
		return 0, nil, fmt.Errorf("no lines to import")
	}

	items := make([]*models.Equipment, 0, len(lines))
	for _, line := range lines {
		items = append(items, &models.Equipment{
			IMEI:         line.IMEI,
			ICCID:        line.ICCID,
			Empresa:      req.Empresa,
			Status:       models.StatusAvailable,
			TechnicianID: techID,
		})
	}

	if err := s.store.Equipment().InsertBatch(ctx, items); err != nil {
		return 0, nil, err
	}
	s.statsCache.Invalidate()

	for _, item := range items {
		details := fmt.Sprintf("importado (%s)", req.Empresa)
		s.audit(ctx, models.ActionCreateEquipment, &item.ID, &userID, &details)
	}
	return len(items), nil, nil
}

// Reserve moves available equipment to reserved under the given name and
// stamps the 17:00 expiration. A concurrent reservation loses the
// conditional update and surfaces as storage.ErrConflict.
func (s *EquipmentService) Reserve(ctx context.Context, id uuid.UUID, req *models.ReserveRequest, userID uuid.UUID) error {
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return fmt.Errorf("nome is required")
	}

	now := time.Now()
	expiresAt := ExpirationFor(now)
	err := s.store.Equipment().UpdateStatus(ctx, id, models.StatusAvailable, storage.StatusChange{
		Status:     models.StatusReserved,
		ReservedBy: &nome,
		ReservedAt: &now,
		ExpiresAt:  &expiresAt,
	})
	if err != nil {
		return err
	}
	s.statsCache.Invalidate()

	details := fmt.Sprintf("reservado para %s", nome)
	if req.Placa != nil && *req.Placa != "" {
		details += fmt.Sprintf(", placa %s", *req.Placa)
	}
	if req.Acompanhante != nil && *req.Acompanhante != "" {
		details += fmt.Sprintf(", acompanhante %s", *req.Acompanhante)
	}
	s.audit(ctx, models.ActionReserveEquipment, &id, &userID, &details)
	return nil
}

// Release returns reserved equipment to the pool and clears the
// reservation fields.
func (s *EquipmentService) Release(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	err := s.store.Equipment().UpdateStatus(ctx, id, models.StatusReserved, storage.StatusChange{
		Status: models.StatusAvailable,
	})
	if err != nil {
		return err
	}
	s.statsCache.Invalidate()
	s.audit(ctx, models.ActionReleaseEquipment, &id, &userID, nil)
	return nil
}

// MarkUsed moves available equipment straight to utilizado. Reserved
// equipment must be released first, so the conditional update rejects it.
func (s *EquipmentService) MarkUsed(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	err := s.store.Equipment().UpdateStatus(ctx, id, models.StatusAvailable, storage.StatusChange{
		Status: models.StatusUsed,
	})
	if err != nil {
		return err
	}
	s.statsCache.Invalidate()
	s.audit(ctx, models.ActionMarkUsed, &id, &userID, nil)
	return nil
}

// Reset puts used equipment back into circulation.
func (s *EquipmentService) Reset(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	err := s.store.Equipment().UpdateStatus(ctx, id, models.StatusUsed, storage.StatusChange{
		Status: models.StatusAvailable,
	})
	if err != nil {
		return err
	}
	s.statsCache.Invalidate()
	s.audit(ctx, models.ActionResetEquipment, &id, &userID, nil)
	return nil
}

func (s *EquipmentService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	item, err := s.store.Equipment().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get equipment: %w", err)
	}
	if item == nil {
		return storage.ErrNotFound
	}

	if err := s.store.Equipment().Delete(ctx, id); err != nil {
		return err
	}
	s.statsCache.Invalidate()

	details := fmt.Sprintf("imei %s, iccid %s", item.IMEI, item.ICCID)
	s.audit(ctx, models.ActionDeleteEquipment, &id, &userID, &details)
	return nil
}

func (s *EquipmentService) Stats(ctx context.Context) (*models.EquipmentStats, error) {
	if cached := s.statsCache.Get(); cached != nil {
		return cached, nil
	}
	stats, err := s.store.Equipment().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count equipment: %w", err)
	}
	s.statsCache.Set(stats)
	return stats, nil
}

// SweepExpired releases every reservation whose expiration has passed and
// returns how many were released.
func (s *EquipmentService) SweepExpired(ctx context.Context) (int, error) {
	released, err := s.store.Equipment().ReleaseExpired(ctx, time.Now())
	if len(released) > 0 {
		s.statsCache.Invalidate()
	}
	for _, id := range released {
		equipID := id
		s.audit(ctx, models.ActionExpireReservation, &equipID, nil, nil)
	}
	return len(released), err
}

// audit appends a log entry. Failures are logged and never fail the action
// that triggered them.
func (s *EquipmentService) audit(ctx context.Context, action string, equipmentID, userID *uuid.UUID, details *string) {
	entry := &models.AuditLog{
		ActionType:  action,
		EquipmentID: equipmentID,
		UserID:      userID,
		Details:     details,
	}
	if err := s.store.Audit().Append(ctx, entry); err != nil {
		log.Printf("Failed to append audit log (%s): %v", action, err)
	}
}
