package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type AgendaRepository struct {
	db *DB
}

func NewAgendaRepository(db *DB) *AgendaRepository {
	return &AgendaRepository{db: db}
}

func (r *AgendaRepository) List(ctx context.Context) ([]models.AgendaEntry, error) {
	var entries []models.AgendaEntry
	query := `
		SELECT a.*, t.nome AS tecnico_nome
		FROM agenda a
		LEFT JOIN technicians t ON t.id = a.tecnico_id
		ORDER BY a.inicio ASC
	`
	err := r.db.SelectContext(ctx, &entries, query)
	return entries, err
}

func (r *AgendaRepository) Create(ctx context.Context, entry *models.AgendaEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO agenda (id, tecnico_id, inicio, fim, motivo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		entry.ID, entry.TechnicianID, entry.Inicio, entry.Fim, entry.Motivo,
	).Scan(&entry.CreatedAt)
}
