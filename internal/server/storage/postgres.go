package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type DB struct {
	*sqlx.DB
}

func NewPostgresDB() (*DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// PostgresStore bundles the per-entity repositories behind the Store
// interface.
type PostgresStore struct {
	db          *DB
	equipment   *EquipmentRepository
	technicians *TechnicianRepository
	agenda      *AgendaRepository
	profiles    *ProfileRepository
	audit       *AuditRepository
}

func NewPostgresStore(db *DB) *PostgresStore {
	return &PostgresStore{
		db:          db,
		equipment:   NewEquipmentRepository(db),
		technicians: NewTechnicianRepository(db),
		agenda:      NewAgendaRepository(db),
		profiles:    NewProfileRepository(db),
		audit:       NewAuditRepository(db),
	}
}

func (s *PostgresStore) Equipment() EquipmentStore    { return s.equipment }
func (s *PostgresStore) Technicians() TechnicianStore { return s.technicians }
func (s *PostgresStore) Agenda() AgendaStore          { return s.agenda }
func (s *PostgresStore) Profiles() ProfileStore       { return s.profiles }
func (s *PostgresStore) Audit() AuditStore            { return s.audit }
func (s *PostgresStore) Close() error                 { return s.db.Close() }
