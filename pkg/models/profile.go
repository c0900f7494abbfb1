package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile roles. Every new account starts as "consultor".
const (
	RoleAdmin      = "admin"
	RoleConsultant = "consultor"
)

type Profile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Nome         string    `json:"nome" db:"nome"`
	Username     string    `json:"username" db:"username"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
