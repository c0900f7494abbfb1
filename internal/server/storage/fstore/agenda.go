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

const agendaCollectionName = "agenda"

type agendaDoc struct {
	TechnicianID string    `firestore:"tecnico_id"`
	Inicio       time.Time `firestore:"inicio"`
	Fim          time.Time `firestore:"fim"`
	Motivo       string    `firestore:"motivo"`
	CreatedAt    time.Time `firestore:"created_at"`
}

type agendaCollection struct {
	client *firestore.Client
}

func (c *agendaCollection) List(ctx context.Context) ([]models.AgendaEntry, error) {
	names, err := technicianNames(ctx, c.client)
	if err != nil {
		return nil, err
	}

	iter := c.client.Collection(agendaCollectionName).
		OrderBy("inicio", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var entries []models.AgendaEntry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list agenda: %w", err)
		}

		var doc agendaDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse agenda entry %s: %w", snap.Ref.ID, err)
		}
		id, err := uuid.Parse(snap.Ref.ID)
		if err != nil {
			continue
		}
		techID, err := uuid.Parse(doc.TechnicianID)
		if err != nil {
			continue
		}

		entry := models.AgendaEntry{
			ID:           id,
			TechnicianID: techID,
			Inicio:       doc.Inicio,
			Fim:          doc.Fim,
			Motivo:       doc.Motivo,
			CreatedAt:    doc.CreatedAt,
		}
		if nome, ok := names[doc.TechnicianID]; ok {
			entry.TechnicianName = &nome
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *agendaCollection) Create(ctx context.Context, entry *models.AgendaEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()

	_, err := c.client.Collection(agendaCollectionName).
		Doc(entry.ID.String()).
		Create(ctx, &agendaDoc{
			TechnicianID: entry.TechnicianID.String(),
			Inicio:       entry.Inicio,
			Fim:          entry.Fim,
			Motivo:       entry.Motivo,
			CreatedAt:    entry.CreatedAt,
		})
	if err != nil {
		return fmt.Errorf("failed to create agenda entry: %w", err)
	}
	return nil
}
