package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type TechnicianRepository struct {
	db *DB
}

func NewTechnicianRepository(db *DB) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

func (r *TechnicianRepository) List(ctx context.Context) ([]models.Technician, error) {
	var technicians []models.Technician
	query := `SELECT * FROM technicians ORDER BY nome`
	err := r.db.SelectContext(ctx, &technicians, query)
	return technicians, err
}

func (r *TechnicianRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Technician, error) {
	var t models.Technician
	query := `SELECT * FROM technicians WHERE id = $1`
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TechnicianRepository) Create(ctx context.Context, t *models.Technician) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	query := `
		INSERT INTO technicians (id, nome)
		VALUES ($1, $2)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, t.ID, t.Nome).Scan(&t.CreatedAt)
}
