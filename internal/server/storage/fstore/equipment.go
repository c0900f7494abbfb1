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

const equipmentCollectionName = "equipments"

type equipmentDoc struct {
	IMEI         string     `firestore:"imei"`
	ICCID        string     `firestore:"iccid"`
	Empresa      string     `firestore:"empresa"`
	Status       string     `firestore:"status"`
	ReservedBy   *string    `firestore:"reservado_por"`
	ReservedAt   *time.Time `firestore:"data_reserva"`
	ExpiresAt    *time.Time `firestore:"remover_apos"`
	TechnicianID *string    `firestore:"tecnico_id"`
	CreatedAt    time.Time  `firestore:"created_at"`
	UpdatedAt    time.Time  `firestore:"updated_at"`
}

func (d *equipmentDoc) toModel(id string) (*models.Equipment, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid equipment doc id %q: %w", id, err)
	}

	item := &models.Equipment{
		ID:         parsed,
		IMEI:       d.IMEI,
		ICCID:      d.ICCID,
		Empresa:    d.Empresa,
		Status:     d.Status,
		ReservedBy: d.ReservedBy,
		ReservedAt: d.ReservedAt,
		ExpiresAt:  d.ExpiresAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.TechnicianID != nil {
		techID, err := uuid.Parse(*d.TechnicianID)
		if err == nil {
			item.TechnicianID = &techID
		}
	}
	return item, nil
}

func fromModel(item *models.Equipment) *equipmentDoc {
	doc := &equipmentDoc{
		IMEI:       item.IMEI,
		ICCID:      item.ICCID,
		Empresa:    item.Empresa,
		Status:     item.Status,
		ReservedBy: item.ReservedBy,
		ReservedAt: item.ReservedAt,
		ExpiresAt:  item.ExpiresAt,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
	if item.TechnicianID != nil {
		s := item.TechnicianID.String()
		doc.TechnicianID = &s
	}
	return doc
}

type equipmentCollection struct {
	client *firestore.Client
}

func (c *equipmentCollection) List(ctx context.Context) ([]models.Equipment, error) {
	// Technician names first, so the listing can carry them like the SQL
	// join does.
	names, err := technicianNames(ctx, c.client)
	if err != nil {
		return nil, err
	}

	iter := c.client.Collection(equipmentCollectionName).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var items []models.Equipment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list equipment: %w", err)
		}

		var doc equipmentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse equipment %s: %w", snap.Ref.ID, err)
		}
		item, err := doc.toModel(snap.Ref.ID)
		if err != nil {
			return nil, err
		}
		if doc.TechnicianID != nil {
			if nome, ok := names[*doc.TechnicianID]; ok {
				item.TechnicianName = &nome
			}
		}
		items = append(items, *item)
	}
	return items, nil
}

func (c *equipmentCollection) GetByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	snap, err := c.client.Collection(equipmentCollectionName).Doc(id.String()).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, nil
		}
		return nil, err
	}

	var doc equipmentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse equipment %s: %w", id, err)
	}
	return doc.toModel(snap.Ref.ID)
}

// InsertBatch writes each item as a new document. Firestore has no unique
// indexes, so here the importer's pre-check is the only duplicate guard;
// the Postgres backend is authoritative when both are in play.
func (c *equipmentCollection) InsertBatch(ctx context.Context, items []*models.Equipment) error {
	now := time.Now().UTC()
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.CreatedAt = now
		item.UpdatedAt = now

		_, err := c.client.Collection(equipmentCollectionName).
			Doc(item.ID.String()).
			Create(ctx, fromModel(item))
		if err != nil {
			return fmt.Errorf("failed to insert equipment %s: %w", item.IMEI, err)
		}
	}
	return nil
}

func (c *equipmentCollection) UpdateStatus(ctx context.Context, id uuid.UUID, expected string, change storage.StatusChange) error {
	ref := c.client.Collection(equipmentCollectionName).Doc(id.String())

	return c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if snap != nil && !snap.Exists() {
				return storage.ErrNotFound
			}
			return err
		}

		var doc equipmentDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("failed to parse equipment %s: %w", id, err)
		}
		if doc.Status != expected {
			return storage.ErrConflict
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: change.Status},
			{Path: "reservado_por", Value: change.ReservedBy},
			{Path: "data_reserva", Value: change.ReservedAt},
			{Path: "remover_apos", Value: change.ExpiresAt},
			{Path: "updated_at", Value: time.Now().UTC()},
		})
	})
}

func (c *equipmentCollection) Delete(ctx context.Context, id uuid.UUID) error {
	ref := c.client.Collection(equipmentCollectionName).Doc(id.String())
	snap, err := ref.Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return storage.ErrNotFound
		}
		return err
	}
	_, err = ref.Delete(ctx)
	return err
}

func (c *equipmentCollection) ExistingIdentifiers(ctx context.Context) (map[string]struct{}, map[string]struct{}, error) {
	iter := c.client.Collection(equipmentCollectionName).
		Select("imei", "iccid").
		Documents(ctx)
	defer iter.Stop()

	imeis := make(map[string]struct{})
	iccids := make(map[string]struct{})
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read identifiers: %w", err)
		}

		data := snap.Data()
		if imei, ok := data["imei"].(string); ok && imei != "" {
			imeis[imei] = struct{}{}
		}
		if iccid, ok := data["iccid"].(string); ok && iccid != "" {
			iccids[iccid] = struct{}{}
		}
	}
	return imeis, iccids, nil
}

func (c *equipmentCollection) ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	iter := c.client.Collection(equipmentCollectionName).
		Where("status", "==", models.StatusReserved).
		Where("remover_apos", "<=", now).
		Documents(ctx)
	defer iter.Stop()

	var expired []uuid.UUID
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return expired, fmt.Errorf("failed to query expired reservations: %w", err)
		}

		id, err := uuid.Parse(snap.Ref.ID)
		if err != nil {
			continue
		}

		// Conditional per-document release; a reservation released or
		// re-taken between the query and here is simply skipped.
		err = c.UpdateStatus(ctx, id, models.StatusReserved, storage.StatusChange{
			Status: models.StatusAvailable,
		})
		if err == storage.ErrConflict || err == storage.ErrNotFound {
			continue
		}
		if err != nil {
			return expired, err
		}
		expired = append(expired, id)
	}
	return expired, nil
}

func (c *equipmentCollection) CountByStatus(ctx context.Context) (*models.EquipmentStats, error) {
	iter := c.client.Collection(equipmentCollectionName).Select("status").Documents(ctx)
	defer iter.Stop()

	stats := &models.EquipmentStats{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count equipment: %w", err)
		}

		stats.Total++
		status, _ := snap.Data()["status"].(string)
		switch status {
		case models.StatusAvailable:
			stats.Disponivel++
		case models.StatusReserved:
			stats.Reservado++
		case models.StatusUsed:
			stats.Utilizado++
		}
	}
	return stats, nil
}
