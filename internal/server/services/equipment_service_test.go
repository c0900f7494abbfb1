package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/internal/testutil"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

func TestEquipmentServiceReserveReleaseLifecycle(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	svc := NewEquipmentService(tdb.Store())

	user := tdb.CreateTestProfile(ctx, "reserver", models.RoleConsultant)
	defer tdb.DeleteTestProfile(ctx, user.ID)

	item := tdb.CreateTestEquipment(ctx, "111000111000111", "89550000001", models.EmpresaLock, models.StatusAvailable)
	defer tdb.DeleteTestEquipment(ctx, item.ID)

	err := svc.Reserve(ctx, item.ID, &models.ReserveRequest{Nome: "Carlos"}, user.ID)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	reserved, err := svc.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reserved.Status != models.StatusReserved {
		t.Errorf("status = %s, want %s", reserved.Status, models.StatusReserved)
	}
	if reserved.ReservedBy == nil || *reserved.ReservedBy != "Carlos" {
		t.Errorf("reservado_por = %v, want Carlos", reserved.ReservedBy)
	}
	if reserved.ReservedAt == nil || reserved.ExpiresAt == nil {
		t.Fatalf("reservation timestamps not set: %+v", reserved)
	}

	wantExpiry := ExpirationFor(reserved.ReservedAt.Local())
	if !reserved.ExpiresAt.Local().Equal(wantExpiry) {
		t.Errorf("remover_apos = %v, want %v", reserved.ExpiresAt.Local(), wantExpiry)
	}
	if reserved.ExpiresAt.Local().Hour() != 17 || reserved.ExpiresAt.Local().Minute() != 0 {
		t.Errorf("remover_apos = %v, want a 17:00 cutoff", reserved.ExpiresAt.Local())
	}

	// A second reservation must lose the conditional update
	err = svc.Reserve(ctx, item.ID, &models.ReserveRequest{Nome: "Ana"}, user.ID)
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("second Reserve error = %v, want ErrConflict", err)
	}

	// Reserved equipment cannot be marked as used
	err = svc.MarkUsed(ctx, item.ID, user.ID)
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("MarkUsed on reserved error = %v, want ErrConflict", err)
	}

	if err := svc.Release(ctx, item.ID, user.ID); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	released, err := svc.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if released.Status != models.StatusAvailable {
		t.Errorf("status = %s, want %s", released.Status, models.StatusAvailable)
	}
	if released.ReservedBy != nil || released.ReservedAt != nil || released.ExpiresAt != nil {
		t.Errorf("reservation fields not cleared: %+v", released)
	}
}

func TestEquipmentServiceMarkUsedAndReset(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	svc := NewEquipmentService(tdb.Store())

	admin := tdb.CreateTestProfile(ctx, "admin-used", models.RoleAdmin)
	defer tdb.DeleteTestProfile(ctx, admin.ID)

	item := tdb.CreateTestEquipment(ctx, "222000222000222", "89550000002", models.EmpresaAlo, models.StatusAvailable)
	defer tdb.DeleteTestEquipment(ctx, item.ID)

	if err := svc.MarkUsed(ctx, item.ID, admin.ID); err != nil {
		t.Fatalf("MarkUsed failed: %v", err)
	}
	used, _ := svc.GetByID(ctx, item.ID)
	if used.Status != models.StatusUsed {
		t.Errorf("status = %s, want %s", used.Status, models.StatusUsed)
	}

	if err := svc.Reset(ctx, item.ID, admin.ID); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	reset, _ := svc.GetByID(ctx, item.ID)
	if reset.Status != models.StatusAvailable {
		t.Errorf("status = %s, want %s", reset.Status, models.StatusAvailable)
	}
}

func TestEquipmentServiceSweepExpired(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	svc := NewEquipmentService(tdb.Store())

	item := tdb.CreateTestEquipment(ctx, "333000333000333", "89550000003", models.EmpresaLock, models.StatusAvailable)
	defer tdb.DeleteTestEquipment(ctx, item.ID)

	// Backdate a reservation so the sweep sees it as expired
	past := time.Now().Add(-48 * time.Hour)
	tdb.Exec(ctx, `
		UPDATE equipments
		SET status = $1, reservado_por = 'Antigo', data_reserva = $2, remover_apos = $3
		WHERE id = $4
	`, models.StatusReserved, past, past.Add(time.Hour), item.ID)

	released, err := svc.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if released < 1 {
		t.Errorf("released = %d, want at least 1", released)
	}

	swept, _ := svc.GetByID(ctx, item.ID)
	if swept.Status != models.StatusAvailable {
		t.Errorf("status = %s, want %s", swept.Status, models.StatusAvailable)
	}
	if swept.ReservedBy != nil || swept.ExpiresAt != nil {
		t.Errorf("reservation fields not cleared: %+v", swept)
	}
}

func TestEquipmentServiceImport(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	svc := NewEquipmentService(tdb.Store())

	user := tdb.CreateTestProfile(ctx, "importer", models.RoleAdmin)
	defer tdb.DeleteTestProfile(ctx, user.ID)

	existing := tdb.CreateTestEquipment(ctx, "444000444000444", "89550000004", models.EmpresaLock, models.StatusAvailable)
	defer tdb.DeleteTestEquipment(ctx, existing.ID)

	// A batch containing an already-stored imei must be rejected whole
	inserted, invalid, err := svc.Import(ctx, &models.ImportRequest{
		Empresa: models.EmpresaLock,
		Text:    "444000444000444,89559999901\n555000555000555,89559999902",
	}, user.ID)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if inserted != 0 || len(invalid) != 1 || invalid[0] != 1 {
		t.Errorf("inserted=%d invalid=%v, want 0 and [1]", inserted, invalid)
	}

	inserted, invalid, err = svc.Import(ctx, &models.ImportRequest{
		Empresa: models.EmpresaLock,
		Text:    "555000555000555,89559999902\n666000666000666,89559999903",
	}, user.ID)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if inserted != 2 || len(invalid) != 0 {
		t.Errorf("inserted=%d invalid=%v, want 2 and none", inserted, invalid)
	}

	items, err := svc.List(ctx, EquipmentFilter{Search: "55500055500"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, item := range items {
		defer tdb.DeleteTestEquipment(ctx, item.ID)
	}
	items2, _ := svc.List(ctx, EquipmentFilter{Search: "666000666000666"})
	for _, item := range items2 {
		defer tdb.DeleteTestEquipment(ctx, item.ID)
	}
	if len(items) != 1 {
		t.Errorf("found %d imported items, want 1", len(items))
	}
}
