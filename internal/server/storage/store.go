package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

var (
	// ErrNotFound is returned when the target row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional status update finds a
	// different stored status than expected (someone else got there first).
	ErrConflict = errors.New("status conflict")

	// ErrDuplicate is returned when an insert violates imei/iccid uniqueness.
	ErrDuplicate = errors.New("duplicate identifier")
)

// StatusChange is the payload of a conditional status transition. The
// reservation fields are written as given: nil clears them, so release and
// mark-used pass all three as nil.
type StatusChange struct {
	Status     string
	ReservedBy *string
	ReservedAt *time.Time
	ExpiresAt  *time.Time
}

type EquipmentStore interface {
	List(ctx context.Context) ([]models.Equipment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	InsertBatch(ctx context.Context, items []*models.Equipment) error
	// UpdateStatus applies change only if the stored status equals expected.
	// Returns ErrConflict when it does not, ErrNotFound when the row is gone.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected string, change StatusChange) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ExistingIdentifiers returns the sets of persisted imei and iccid
	// values, used as the bulk-import fast-path duplicate check.
	ExistingIdentifiers(ctx context.Context) (imeis, iccids map[string]struct{}, err error)
	// ReleaseExpired flips reserved equipment whose expiration has passed
	// back to available and returns the affected ids.
	ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	CountByStatus(ctx context.Context) (*models.EquipmentStats, error)
}

type TechnicianStore interface {
	List(ctx context.Context) ([]models.Technician, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Technician, error)
	Create(ctx context.Context, t *models.Technician) error
}

type AgendaStore interface {
	List(ctx context.Context) ([]models.AgendaEntry, error)
	Create(ctx context.Context, entry *models.AgendaEntry) error
}

type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
}

type AuditStore interface {
	Append(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Store is the backend-agnostic persistence surface. Handlers and services
// depend on this (or on the sub-interfaces), never on a concrete backend.
type Store interface {
	Equipment() EquipmentStore
	Technicians() TechnicianStore
	Agenda() AgendaStore
	Profiles() ProfileStore
	Audit() AuditStore
	Close() error
}
