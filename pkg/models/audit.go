package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit action types. Kept as the frontend's label keys.
const (
	ActionCreateEquipment   = "CREATE_EQUIPMENT"
	ActionReserveEquipment  = "RESERVE_EQUIPMENT"
	ActionReleaseEquipment  = "RELEASE_EQUIPMENT"
	ActionMarkUsed          = "MARK_USED"
	ActionResetEquipment    = "RESET_EQUIPMENT"
	ActionDeleteEquipment   = "DELETE_EQUIPMENT"
	ActionExpireReservation = "EXPIRE_RESERVATION"
)

// AuditLog is an append-only record of an action in the system.
// Details holds a short free-text description of the action.
type AuditLog struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ActionType  string     `json:"action_type" db:"action_type"`
	EquipmentID *uuid.UUID `json:"equipment_id,omitempty" db:"equipment_id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Details     *string    `json:"details,omitempty" db:"details"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	// Joined from equipments on list queries, not columns
	EquipmentIMEI  *string `json:"equipment_imei,omitempty" db:"equipment_imei"`
	EquipmentICCID *string `json:"equipment_iccid,omitempty" db:"equipment_iccid"`
}
