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

const auditCollectionName = "audit_logs"

type auditDoc struct {
	ActionType  string    `firestore:"action_type"`
	EquipmentID *string   `firestore:"equipment_id"`
	UserID      *string   `firestore:"user_id"`
	Details     *string   `firestore:"details"`
	CreatedAt   time.Time `firestore:"created_at"`
}

type auditCollection struct {
	client *firestore.Client
}

func (c *auditCollection) Append(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()

	doc := &auditDoc{
		ActionType: entry.ActionType,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.EquipmentID != nil {
		s := entry.EquipmentID.String()
		doc.EquipmentID = &s
	}
	if entry.UserID != nil {
		s := entry.UserID.String()
		doc.UserID = &s
	}

	_, err := c.client.Collection(auditCollectionName).
		Doc(entry.ID.String()).
		Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

func (c *auditCollection) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	iter := c.client.Collection(auditCollectionName).
		OrderBy("created_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	// Equipment identifiers are resolved per referenced document, cached so
	// repeated references cost one read.
	type identifiers struct {
		imei, iccid *string
	}
	seen := make(map[string]identifiers)

	var logs []models.AuditLog
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list audit logs: %w", err)
		}

		var doc auditDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse audit log %s: %w", snap.Ref.ID, err)
		}
		id, err := uuid.Parse(snap.Ref.ID)
		if err != nil {
			continue
		}

		entry := models.AuditLog{
			ID:         id,
			ActionType: doc.ActionType,
			Details:    doc.Details,
			CreatedAt:  doc.CreatedAt,
		}
		if doc.UserID != nil {
			if userID, err := uuid.Parse(*doc.UserID); err == nil {
				entry.UserID = &userID
			}
		}
		if doc.EquipmentID != nil {
			if equipID, err := uuid.Parse(*doc.EquipmentID); err == nil {
				entry.EquipmentID = &equipID
			}

			ids, ok := seen[*doc.EquipmentID]
			if !ok {
				eqSnap, err := c.client.Collection(equipmentCollectionName).Doc(*doc.EquipmentID).Get(ctx)
				if err == nil {
					if imei, ok := eqSnap.Data()["imei"].(string); ok {
						ids.imei = &imei
					}
					if iccid, ok := eqSnap.Data()["iccid"].(string); ok {
						ids.iccid = &iccid
					}
				}
				seen[*doc.EquipmentID] = ids
			}
			entry.EquipmentIMEI = ids.imei
			entry.EquipmentICCID = ids.iccid
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
