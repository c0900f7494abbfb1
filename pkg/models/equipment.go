package models

import (
	"time"

	"github.com/google/uuid"
)

// Equipment status values. Stored as-is in the database, so they match the
// values the frontend already knows.
const (
	StatusAvailable = "disponivel"
	StatusReserved  = "reservado"
	StatusUsed      = "utilizado"
)

// Empresa (owning company) values.
const (
	EmpresaLock = "LOCK"
	EmpresaAlo  = "ALO"
)

type Equipment struct {
	ID      uuid.UUID `json:"id" db:"id"`
	IMEI    string    `json:"imei" db:"imei"`
	ICCID   string    `json:"iccid" db:"iccid"`
	Empresa string    `json:"empresa" db:"empresa"`
	Status  string    `json:"status" db:"status"`

	// Reservation fields. Set together on reserve, cleared together on
	// release/mark-used. "reservado" implies all three are populated.
	ReservedBy *string    `json:"reservado_por,omitempty" db:"reservado_por"`
	ReservedAt *time.Time `json:"data_reserva,omitempty" db:"data_reserva"`
	ExpiresAt  *time.Time `json:"remover_apos,omitempty" db:"remover_apos"`

	TechnicianID *uuid.UUID `json:"tecnico_id,omitempty" db:"tecnico_id"`

	// Joined from technicians on list queries, not a column
	TechnicianName *string `json:"tecnico_nome,omitempty" db:"tecnico_nome"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsValidStatus reports whether s is one of the known equipment statuses.
func IsValidStatus(s string) bool {
	return s == StatusAvailable || s == StatusReserved || s == StatusUsed
}

// IsValidEmpresa reports whether e is one of the known empresa values.
func IsValidEmpresa(e string) bool {
	return e == EmpresaLock || e == EmpresaAlo
}

type Technician struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Nome      string    `json:"nome" db:"nome"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EquipmentStats holds the dashboard counters.
type EquipmentStats struct {
	Total      int `json:"total"`
	Disponivel int `json:"disponivel"`
	Reservado  int `json:"reservado"`
	Utilizado  int `json:"utilizado"`
}
