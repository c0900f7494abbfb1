package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lucasmateusli/equiptrack/pkg/models"
	"github.com/lucasmateusli/equiptrack/pkg/utils"
)

// stubProfiles serves a fixed set of profiles by ID.
type stubProfiles struct {
	profiles map[uuid.UUID]*models.Profile
}

func (s *stubProfiles) Create(ctx context.Context, p *models.Profile) error { return nil }
func (s *stubProfiles) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.profiles[id], nil
}
func (s *stubProfiles) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return nil, nil
}
func (s *stubProfiles) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return nil, nil
}
func (s *stubProfiles) UpdateRole(ctx context.Context, id uuid.UUID, role string) error { return nil }

func requestWithClaims(userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/logs", nil)
	claims := &utils.Claims{UserID: userID}
	return req.WithContext(context.WithValue(req.Context(), userClaimsKey, claims))
}

func TestAdminOnly_AllowsAdminRole(t *testing.T) {
	adminID := uuid.New()
	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{
		adminID: {ID: adminID, Role: models.RoleAdmin},
	}}

	rec := httptest.NewRecorder()
	nextCalled := false
	handler := AdminOnly(profiles)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusNoContent)
	}))

	handler.ServeHTTP(rec, requestWithClaims(adminID))

	if !nextCalled {
		t.Fatalf("expected next handler to run for admin")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 status, got %d", rec.Code)
	}
}

func TestAdminOnly_RejectsConsultor(t *testing.T) {
	userID := uuid.New()
	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{
		userID: {ID: userID, Role: models.RoleConsultant},
	}}

	rec := httptest.NewRecorder()
	handler := AdminOnly(profiles)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected call to next handler")
	}))

	handler.ServeHTTP(rec, requestWithClaims(userID))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 status for consultor, got %d", rec.Code)
	}
}

func TestAdminOnly_RejectsUnknownProfile(t *testing.T) {
	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{}}

	rec := httptest.NewRecorder()
	handler := AdminOnly(profiles)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected call to next handler")
	}))

	handler.ServeHTTP(rec, requestWithClaims(uuid.New()))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 status for unknown profile, got %d", rec.Code)
	}
}

func TestAuthMiddleware_AcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	token, err := utils.GenerateJWT(userID, "user@example.com", "user", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/equipments", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserClaims(r)
		if claims == nil || claims.UserID != userID {
			t.Errorf("claims not propagated: %+v", claims)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 status, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/equipments", nil)
	rec := httptest.NewRecorder()
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected call to next handler")
	}))

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 status, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/equipments", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected call to next handler")
	}))

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 status, got %d", rec.Code)
	}
}
