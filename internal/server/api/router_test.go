package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lucasmateusli/equiptrack/internal/server/services"
	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
	"github.com/lucasmateusli/equiptrack/pkg/utils"
)

// stubEquipment records writes so tests can assert what reached storage.
type stubEquipment struct {
	insertedBatches int
	statusUpdates   int
}

func (s *stubEquipment) List(ctx context.Context) ([]models.Equipment, error) { return nil, nil }
func (s *stubEquipment) GetByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	return &models.Equipment{ID: id, IMEI: "111", ICCID: "aaa", Empresa: models.EmpresaLock, Status: models.StatusAvailable}, nil
}
func (s *stubEquipment) InsertBatch(ctx context.Context, items []*models.Equipment) error {
	s.insertedBatches++
	return nil
}
func (s *stubEquipment) UpdateStatus(ctx context.Context, id uuid.UUID, expected string, change storage.StatusChange) error {
	s.statusUpdates++
	return nil
}
func (s *stubEquipment) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubEquipment) ExistingIdentifiers(ctx context.Context) (map[string]struct{}, map[string]struct{}, error) {
	return map[string]struct{}{}, map[string]struct{}{}, nil
}
func (s *stubEquipment) ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	return nil, nil
}
func (s *stubEquipment) CountByStatus(ctx context.Context) (*models.EquipmentStats, error) {
	return &models.EquipmentStats{}, nil
}

type stubTechnicians struct{}

func (s *stubTechnicians) List(ctx context.Context) ([]models.Technician, error) { return nil, nil }
func (s *stubTechnicians) GetByID(ctx context.Context, id uuid.UUID) (*models.Technician, error) {
	return nil, nil
}
func (s *stubTechnicians) Create(ctx context.Context, t *models.Technician) error { return nil }

type stubAgenda struct{}

func (s *stubAgenda) List(ctx context.Context) ([]models.AgendaEntry, error)    { return nil, nil }
func (s *stubAgenda) Create(ctx context.Context, entry *models.AgendaEntry) error { return nil }

type stubAudit struct{}

func (s *stubAudit) Append(ctx context.Context, entry *models.AuditLog) error { return nil }
func (s *stubAudit) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return nil, nil
}

type stubStore struct {
	equipment *stubEquipment
	profiles  *stubProfiles
}

func (s *stubStore) Equipment() storage.EquipmentStore    { return s.equipment }
func (s *stubStore) Technicians() storage.TechnicianStore { return &stubTechnicians{} }
func (s *stubStore) Agenda() storage.AgendaStore          { return &stubAgenda{} }
func (s *stubStore) Profiles() storage.ProfileStore       { return s.profiles }
func (s *stubStore) Audit() storage.AuditStore            { return &stubAudit{} }
func (s *stubStore) Close() error                         { return nil }

func newTestRouter(t *testing.T) (http.Handler, *stubStore, string, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	adminID := uuid.New()
	consultorID := uuid.New()
	store := &stubStore{
		equipment: &stubEquipment{},
		profiles: &stubProfiles{profiles: map[uuid.UUID]*models.Profile{
			adminID:     {ID: adminID, Role: models.RoleAdmin},
			consultorID: {ID: consultorID, Role: models.RoleConsultant},
		}},
	}

	equipmentService := services.NewEquipmentService(store)
	router := NewRouter(store.Profiles(), Handlers{
		Auth:      NewAuthHandler(services.NewAuthService(store.Profiles(), nil)),
		Equipment: NewEquipmentHandler(equipmentService, services.NewLabelService(store.Equipment())),
		Agenda:    NewAgendaHandler(services.NewAgendaService(store.Agenda(), store.Technicians())),
		Logs:      NewLogsHandler(store.Audit()),
	})

	adminToken := testToken(t, adminID)
	consultorToken := testToken(t, consultorID)
	return router, store, adminToken, consultorToken
}

func testToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, "user@example.com", "user", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestRouterImportRequiresAdmin(t *testing.T) {
	router, store, adminToken, consultorToken := newTestRouter(t)

	body := `{"empresa":"LOCK","text":"356938035643809,8955000000000000001"}`

	req := httptest.NewRequest(http.MethodPost, "/api/equipments/import", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+consultorToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("consultor import status = %d, want 403", rec.Code)
	}
	if store.equipment.insertedBatches != 0 {
		t.Fatalf("consultor import reached InsertBatch %d times, want 0", store.equipment.insertedBatches)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/equipments/import", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("admin import status = %d, want 201", rec.Code)
	}
	if store.equipment.insertedBatches != 1 {
		t.Fatalf("admin import reached InsertBatch %d times, want 1", store.equipment.insertedBatches)
	}
}

func TestRouterReserveOpenToConsultor(t *testing.T) {
	router, store, _, consultorToken := newTestRouter(t)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/equipments/"+id.String()+"/reserve",
		strings.NewReader(`{"nome":"Carlos"}`))
	req.Header.Set("Authorization", "Bearer "+consultorToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("consultor reserve status = %d, want 200", rec.Code)
	}
	if store.equipment.statusUpdates != 1 {
		t.Fatalf("reserve reached UpdateStatus %d times, want 1", store.equipment.statusUpdates)
	}
}

func TestRouterMarkUsedRequiresAdmin(t *testing.T) {
	router, store, _, consultorToken := newTestRouter(t)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/equipments/"+id.String()+"/use", nil)
	req.Header.Set("Authorization", "Bearer "+consultorToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("consultor mark-used status = %d, want 403", rec.Code)
	}
	if store.equipment.statusUpdates != 0 {
		t.Fatalf("mark-used reached UpdateStatus %d times, want 0", store.equipment.statusUpdates)
	}
}
