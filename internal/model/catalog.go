package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const loadsBucket = "model_loads" // Bucket name for artifact load records

// LoadRecord captures the outcome of one artifact load attempt. Records are
// operational metadata for the model registry, not prediction history.
type LoadRecord struct {
	Family     string    `json:"family"`
	Version    string    `json:"version"`
	ModelPath  string    `json:"model_path"`
	ScalerPath string    `json:"scaler_path"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	DurationMS float64   `json:"duration_ms"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// Catalog persists artifact load records in BoltDB so operators can inspect
// when and how each model family was last (re)loaded across restarts.
type Catalog struct {
	db *bbolt.DB
}

// OpenCatalog opens (or creates) the catalog database at the given path.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(loadsBucket)); err != nil {
			return fmt.Errorf("create loads bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// RecordLoad stores a load record keyed by "family_timestamp" so records for
// one family sort chronologically.
func (c *Catalog) RecordLoad(rec LoadRecord) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(loadsBucket))

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal load record: %w", err)
		}

		key := fmt.Sprintf("%s_%d", rec.Family, rec.LoadedAt.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// LoadsForFamily returns all recorded load attempts for a model family in
// chronological order.
func (c *Catalog) LoadsForFamily(familyName string) ([]LoadRecord, error) {
	var records []LoadRecord

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(loadsBucket))
		cur := b.Cursor()

		prefix := []byte(familyName + "_")
		for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
			var rec LoadRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue // Skip malformed records
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}
