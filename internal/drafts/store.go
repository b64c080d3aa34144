// Package drafts persists in-progress campaign drafts locally so an
// operator's work survives a console restart. The engine never sees a draft;
// it only receives the create/update request the composer produces.
package drafts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/phishdeck/phishdeck/internal/models"
)

var bucketDrafts = []byte("drafts")

// Store provides draft persistence on BoltDB.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the draft database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create drafts directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open drafts database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDrafts)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create drafts bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a draft, assigning an id on first save.
func (s *Store) Save(d *models.CampaignDraft) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.UpdatedAt = time.Now()

	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshal draft: %w", err)
		}
		return tx.Bucket(bucketDrafts).Put([]byte(d.ID), data)
	})
}

// Get retrieves a draft by id. A missing id returns (nil, nil).
func (s *Store) Get(id string) (*models.CampaignDraft, error) {
	var draft *models.CampaignDraft

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketDrafts).Get([]byte(id))
		if data == nil {
			return nil
		}
		var d models.CampaignDraft
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("unmarshal draft %s: %w", id, err)
		}
		draft = &d
		return nil
	})
	return draft, err
}

// List returns all stored drafts.
func (s *Store) List() ([]*models.CampaignDraft, error) {
	var out []*models.CampaignDraft

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDrafts).ForEach(func(k, v []byte) error {
			var d models.CampaignDraft
			if err := json.Unmarshal(v, &d); err != nil {
				// Skip undecodable entries rather than failing the listing.
				return nil
			}
			out = append(out, &d)
			return nil
		})
	})
	return out, err
}

// Delete removes a draft. Deleting an unknown id is not an error.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDrafts).Delete([]byte(id))
	})
}
