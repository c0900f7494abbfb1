package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type EquipmentRepository struct {
	db *DB
}

func NewEquipmentRepository(db *DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) List(ctx context.Context) ([]models.Equipment, error) {
	var items []models.Equipment
	query := `
		SELECT e.*, t.nome AS tecnico_nome
		FROM equipments e
		LEFT JOIN technicians t ON t.id = e.tecnico_id
		ORDER BY e.created_at DESC
	`
	err := r.db.SelectContext(ctx, &items, query)
	return items, err
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var item models.Equipment
	query := `
		SELECT e.*, t.nome AS tecnico_nome
		FROM equipments e
		LEFT JOIN technicians t ON t.id = e.tecnico_id
		WHERE e.id = $1
	`
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// InsertBatch inserts all items in one transaction. A unique-index violation
// on imei or iccid aborts the whole batch with ErrDuplicate, which is the
// authoritative duplicate signal behind the importer's pre-check.
func (r *EquipmentRepository) InsertBatch(ctx context.Context, items []*models.Equipment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO equipments (id, imei, iccid, empresa, status, tecnico_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		err := tx.QueryRowContext(ctx, query,
			item.ID, item.IMEI, item.ICCID, item.Empresa, item.Status, item.TechnicianID,
		).Scan(&item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrDuplicate
			}
			return err
		}
	}

	return tx.Commit()
}

func (r *EquipmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected string, change StatusChange) error {
	query := `
		UPDATE equipments
		SET status = $1, reservado_por = $2, data_reserva = $3, remover_apos = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		change.Status, change.ReservedBy, change.ReservedAt, change.ExpiresAt, id, expected)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing matched: tell a missing row apart from a lost race.
	var current string
	err = r.db.GetContext(ctx, &current, `SELECT status FROM equipments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

func (r *EquipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) ExistingIdentifiers(ctx context.Context) (map[string]struct{}, map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT imei, iccid FROM equipments`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	imeis := make(map[string]struct{})
	iccids := make(map[string]struct{})
	for rows.Next() {
		var imei, iccid string
		if err := rows.Scan(&imei, &iccid); err != nil {
			return nil, nil, err
		}
		imeis[imei] = struct{}{}
		iccids[iccid] = struct{}{}
	}
	return imeis, iccids, rows.Err()
}

func (r *EquipmentRepository) ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		UPDATE equipments
		SET status = $1, reservado_por = NULL, data_reserva = NULL, remover_apos = NULL, updated_at = NOW()
		WHERE status = $2 AND remover_apos <= $3
		RETURNING id
	`
	err := r.db.SelectContext(ctx, &ids, query, models.StatusAvailable, models.StatusReserved, now)
	return ids, err
}

func (r *EquipmentRepository) CountByStatus(ctx context.Context) (*models.EquipmentStats, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM equipments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.EquipmentStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch status {
		case models.StatusAvailable:
			stats.Disponivel = count
		case models.StatusReserved:
			stats.Reservado = count
		case models.StatusUsed:
			stats.Utilizado = count
		}
	}
	return stats, rows.Err()
}
