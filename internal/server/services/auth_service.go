package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
	"github.com/lucasmateusli/equiptrack/pkg/utils"
)

type AuthService struct {
	profiles     storage.ProfileStore
	emailService *EmailService
}

func NewAuthService(profiles storage.ProfileStore, emailService *EmailService) *AuthService {
	return &AuthService{
		profiles:     profiles,
		emailService: emailService,
	}
}

func jwtSecret() (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return secret, nil
}

func jwtExpiration() time.Duration {
	if envExp := os.Getenv("JWT_EXPIRATION"); envExp != "" {
		if d, err := time.ParseDuration(envExp); err == nil {
			return d
		}
	}
	return 24 * time.Hour
}

// SignUp creates a profile with the consultor role and signs it in.
func (s *AuthService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.AuthResponse, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if req.Nome == "" || req.Username == "" {
		return nil, fmt.Errorf("nome and username are required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Email:        req.Email,
		Nome:         req.Nome,
		Username:     req.Username,
		Role:         models.RoleConsultant,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if err == storage.ErrDuplicate {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	// Send welcome email in background
	if s.emailService != nil {
		go func() {
			if err := s.emailService.SendWelcomeEmail(profile.Email, profile.Nome); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", profile.Email, err)
			}
		}()
	}

	return s.issueToken(profile)
}

// SignIn verifies email+password and returns a fresh token.
func (s *AuthService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.AuthResponse, error) {
	profile, err := s.profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil || !utils.CheckPassword(profile.PasswordHash, req.Password) {
		return nil, fmt.Errorf("invalid email or password")
	}
	return s.issueToken(profile)
}

func (s *AuthService) issueToken(profile *models.Profile) (*models.AuthResponse, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	expiration := jwtExpiration()
	token, err := utils.GenerateJWT(profile.ID, profile.Email, profile.Username, secret, expiration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(expiration).Format(time.RFC3339),
		Profile:   profile,
	}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// MakeAdmin promotes the profile named by ADMIN_USERNAME. It exists to
// bootstrap the first admin; any further promotion goes through the CLI.
func (s *AuthService) MakeAdmin(ctx context.Context, username string) (*models.Profile, error) {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		return nil, fmt.Errorf("admin promotion is disabled")
	}
	if username != adminUsername {
		return nil, fmt.Errorf("username not allowed to become admin")
	}
	return s.Promote(ctx, username)
}

// Promote sets the admin role on a profile by username.
func (s *AuthService) Promote(ctx context.Context, username string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil {
		return nil, storage.ErrNotFound
	}

	if err := s.profiles.UpdateRole(ctx, profile.ID, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	profile.Role = models.RoleAdmin
	return profile, nil
}
