package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type AgendaService struct {
	agenda      storage.AgendaStore
	technicians storage.TechnicianStore
}

func NewAgendaService(agenda storage.AgendaStore, technicians storage.TechnicianStore) *AgendaService {
	return &AgendaService{agenda: agenda, technicians: technicians}
}

// List returns the agenda ordered by start time, with each entry's Active
// flag set for the current moment.
func (s *AgendaService) List(ctx context.Context) ([]models.AgendaEntry, error) {
	entries, err := s.agenda.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list agenda: %w", err)
	}

	now := time.Now()
	for i := range entries {
		entries[i].Active = entries[i].IsActiveAt(now)
	}
	return entries, nil
}

func (s *AgendaService) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	techs, err := s.technicians.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	return techs, nil
}

func (s *AgendaService) CreateEntry(ctx context.Context, entry *models.AgendaEntry) error {
	if entry.Fim.Before(entry.Inicio) {
		return fmt.Errorf("fim must not be before inicio")
	}
	tech, err := s.technicians.GetByID(ctx, entry.TechnicianID)
	if err != nil {
		return fmt.Errorf("failed to look up technician: %w", err)
	}
	if tech == nil {
		return storage.ErrNotFound
	}
	return s.agenda.Create(ctx, entry)
}
