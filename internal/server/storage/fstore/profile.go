package fstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

const profileCollectionName = "profiles"

type profileDoc struct {
	Email        string    `firestore:"email"`
	Nome         string    `firestore:"nome"`
	Username     string    `firestore:"username"`
	Role         string    `firestore:"role"`
	PasswordHash string    `firestore:"password_hash"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func (d *profileDoc) toModel(id string) (*models.Profile, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid profile doc id %q: %w", id, err)
	}
	return &models.Profile{
		ID:           parsed,
		Email:        d.Email,
		Nome:         d.Nome,
		Username:     d.Username,
		Role:         d.Role,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type profileCollection struct {
	client *firestore.Client
}

// Create pre-checks email and username uniqueness. Firestore cannot enforce
// it, so a concurrent signup race is possible; acceptable for this tool.
func (c *profileCollection) Create(ctx context.Context, p *models.Profile) error {
	if existing, err := c.GetByEmail(ctx, p.Email); err != nil {
		return err
	} else if existing != nil {
		return storage.ErrDuplicate
	}
	if existing, err := c.GetByUsername(ctx, p.Username); err != nil {
		return err
	} else if existing != nil {
		return storage.ErrDuplicate
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := c.client.Collection(profileCollectionName).
		Doc(p.ID.String()).
		Create(ctx, &profileDoc{
			Email:        p.Email,
			Nome:         p.Nome,
			Username:     p.Username,
			Role:         p.Role,
			PasswordHash: p.PasswordHash,
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		})
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (c *profileCollection) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	snap, err := c.client.Collection(profileCollectionName).Doc(id.String()).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, nil
		}
		return nil, err
	}

	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", id, err)
	}
	return doc.toModel(snap.Ref.ID)
}

func (c *profileCollection) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return c.getByField(ctx, "email", email)
}

func (c *profileCollection) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return c.getByField(ctx, "username", username)
}

func (c *profileCollection) getByField(ctx context.Context, field, value string) (*models.Profile, error) {
	iter := c.client.Collection(profileCollectionName).
		Where(field, "==", value).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile by %s: %w", field, err)
	}

	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", snap.Ref.ID, err)
	}
	return doc.toModel(snap.Ref.ID)
}

func (c *profileCollection) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	ref := c.client.Collection(profileCollectionName).Doc(id.String())
	snap, err := ref.Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return storage.ErrNotFound
		}
		return err
	}

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	return err
}
