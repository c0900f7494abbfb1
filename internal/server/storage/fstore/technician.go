package fstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/lucasmateusli/equiptrack/pkg/models"
)

const technicianCollectionName = "technicians"

type technicianDoc struct {
	Nome      string    `firestore:"nome"`
	CreatedAt time.Time `firestore:"created_at"`
}

type technicianCollection struct {
	client *firestore.Client
}

func (c *technicianCollection) List(ctx context.Context) ([]models.Technician, error) {
	iter := c.client.Collection(technicianCollectionName).
		OrderBy("nome", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var techs []models.Technician
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list technicians: %w", err)
		}

		var doc technicianDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse technician %s: %w", snap.Ref.ID, err)
		}
		id, err := uuid.Parse(snap.Ref.ID)
		if err != nil {
			continue
		}
		techs = append(techs, models.Technician{
			ID:        id,
			Nome:      doc.Nome,
			CreatedAt: doc.CreatedAt,
		})
	}
	return techs, nil
}

func (c *technicianCollection) GetByID(ctx context.Context, id uuid.UUID) (*models.Technician, error) {
	snap, err := c.client.Collection(technicianCollectionName).Doc(id.String()).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, nil
		}
		return nil, err
	}

	var doc technicianDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse technician %s: %w", id, err)
	}
	return &models.Technician{ID: id, Nome: doc.Nome, CreatedAt: doc.CreatedAt}, nil
}

func (c *technicianCollection) Create(ctx context.Context, tech *models.Technician) error {
	if tech.ID == uuid.Nil {
		tech.ID = uuid.New()
	}
	tech.CreatedAt = time.Now().UTC()

	_, err := c.client.Collection(technicianCollectionName).
		Doc(tech.ID.String()).
		Create(ctx, &technicianDoc{Nome: tech.Nome, CreatedAt: tech.CreatedAt})
	if err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

// technicianNames loads doc ID -> nome for every technician, standing in for
// the LEFT JOIN the SQL backend uses on listings.
func technicianNames(ctx context.Context, client *firestore.Client) (map[string]string, error) {
	iter := client.Collection(technicianCollectionName).Select("nome").Documents(ctx)
	defer iter.Stop()

	names := make(map[string]string)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load technician names: %w", err)
		}
		if nome, ok := snap.Data()["nome"].(string); ok {
			names[snap.Ref.ID] = nome
		}
	}
	return names, nil
}
