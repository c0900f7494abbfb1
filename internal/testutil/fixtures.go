package testutil

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lucasmateusli/equiptrack/pkg/models"
)

// CreateTestProfile creates a profile in the database and returns it
func (tdb *TestDB) CreateTestProfile(ctx context.Context, username, role string) *models.Profile {
	tdb.t.Helper()

	id := uuid.New()
	profile := &models.Profile{
		ID:           id,
		Email:        fmt.Sprintf("%s@test.local", username),
		Nome:         "Test " + username,
		Username:     username,
		Role:         role,
		PasswordHash: "$2a$10$testhashnotusableforlogin000000000000000000000000000",
	}

	_, err := tdb.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, email, nome, username, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, profile.ID, profile.Email, profile.Nome, profile.Username, profile.Role, profile.PasswordHash)
	if err != nil {
		tdb.t.Fatalf("Failed to create test profile: %v", err)
	}
	return profile
}

// DeleteTestProfile removes a test profile from the database
func (tdb *TestDB) DeleteTestProfile(ctx context.Context, id uuid.UUID) {
	tdb.t.Helper()
	_, _ = tdb.DB.ExecContext(ctx, "DELETE FROM profiles WHERE id = $1", id)
}

// CreateTestTechnician creates a technician in the database
func (tdb *TestDB) CreateTestTechnician(ctx context.Context, nome string) *models.Technician {
	tdb.t.Helper()

	tech := &models.Technician{ID: uuid.New(), Nome: nome}
	_, err := tdb.DB.ExecContext(ctx, `
		INSERT INTO technicians (id, nome) VALUES ($1, $2)
	`, tech.ID, tech.Nome)
	if err != nil {
		tdb.t.Fatalf("Failed to create test technician: %v", err)
	}
	return tech
}

// DeleteTestTechnician removes a test technician from the database
func (tdb *TestDB) DeleteTestTechnician(ctx context.Context, id uuid.UUID) {
	tdb.t.Helper()
	_, _ = tdb.DB.ExecContext(ctx, "DELETE FROM technicians WHERE id = $1", id)
}

// CreateTestEquipment creates equipment in the given status
func (tdb *TestDB) CreateTestEquipment(ctx context.Context, imei, iccid, empresa, status string) *models.Equipment {
	tdb.t.Helper()

	item := &models.Equipment{
		ID:      uuid.New(),
		IMEI:    imei,
		ICCID:   iccid,
		Empresa: empresa,
		Status:  status,
	}
	_, err := tdb.DB.ExecContext(ctx, `
		INSERT INTO equipments (id, imei, iccid, empresa, status)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID, item.IMEI, item.ICCID, item.Empresa, item.Status)
	if err != nil {
		tdb.t.Fatalf("Failed to create test equipment: %v", err)
	}
	return item
}

// DeleteTestEquipment removes test equipment and its audit trail
func (tdb *TestDB) DeleteTestEquipment(ctx context.Context, id uuid.UUID) {
	tdb.t.Helper()
	_, _ = tdb.DB.ExecContext(ctx, "DELETE FROM audit_logs WHERE equipment_id = $1", id)
	_, _ = tdb.DB.ExecContext(ctx, "DELETE FROM equipments WHERE id = $1", id)
}
