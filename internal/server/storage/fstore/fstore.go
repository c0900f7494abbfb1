// Package fstore is the Firestore implementation of storage.Store, used
// when STORAGE_BACKEND=firestore. Data lives in top-level collections
// mirroring the Postgres tables: equipments, technicians, agenda, profiles,
// audit_logs.
package fstore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
)

type Store struct {
	client *firestore.Client

	equipment   *equipmentCollection
	technicians *technicianCollection
	agenda      *agendaCollection
	profiles    *profileCollection
	audit       *auditCollection
}

// New initializes the Firebase app from FIREBASE_CREDENTIALS_PATH and opens
// a Firestore client.
func New(ctx context.Context) (*Store, error) {
	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH not set")
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	s := &Store{client: client}
	s.equipment = &equipmentCollection{client: client}
	s.technicians = &technicianCollection{client: client}
	s.agenda = &agendaCollection{client: client}
	s.profiles = &profileCollection{client: client}
	s.audit = &auditCollection{client: client}
	return s, nil
}

func (s *Store) Equipment() storage.EquipmentStore    { return s.equipment }
func (s *Store) Technicians() storage.TechnicianStore { return s.technicians }
func (s *Store) Agenda() storage.AgendaStore          { return s.agenda }
func (s *Store) Profiles() storage.ProfileStore       { return s.profiles }
func (s *Store) Audit() storage.AuditStore            { return s.audit }

func (s *Store) Close() error {
	return s.client.Close()
}
