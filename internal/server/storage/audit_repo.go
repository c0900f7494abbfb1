package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type AuditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO audit_logs (id, action_type, equipment_id, user_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		entry.ID, entry.ActionType, entry.EquipmentID, entry.UserID, entry.Details,
	).Scan(&entry.CreatedAt)
}

func (r *AuditRepository) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	query := `
		SELECT l.*, e.imei AS equipment_imei, e.iccid AS equipment_iccid
		FROM audit_logs l
		LEFT JOIN equipments e ON e.id = l.equipment_id
		ORDER BY l.created_at DESC
		LIMIT $1
	`
	err := r.db.SelectContext(ctx, &logs, query, limit)
	return logs, err
}
