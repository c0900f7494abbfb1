package models

import (
	"time"

	"github.com/google/uuid"
)

// AgendaEntry is a technician's blocked time window.
type AgendaEntry struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TechnicianID uuid.UUID `json:"tecnico_id" db:"tecnico_id"`
	Inicio       time.Time `json:"inicio" db:"inicio"`
	Fim          time.Time `json:"fim" db:"fim"`
	Motivo       string    `json:"motivo" db:"motivo"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Joined from technicians on list queries, not a column
	TechnicianName *string `json:"tecnico_nome,omitempty" db:"tecnico_nome"`

	// Active is true when the entry's window contains now. Calculated
	// field, not stored in DB.
	Active bool `json:"active" db:"-"`
}

// IsActiveAt reports whether the entry's window contains t.
func (a *AgendaEntry) IsActiveAt(t time.Time) bool {
	return !t.Before(a.Inicio) && !t.After(a.Fim)
}
