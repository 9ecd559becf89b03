package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
	"textok/internal/domain"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var keySchemaVersion = []byte("schema_version")

// GetSchemaVersion returns the stored schema version, 0 for a fresh database.
func (s *BoltStore) GetSchemaVersion() (int, error) {
	var version int
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &version); err != nil {
			version = 1
		}
		return nil
	})
	return version, err
}

func (s *BoltStore) setSchemaVersion(version int) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(version)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	Unsupported    bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration reports whether the database needs upgrading.
func (s *BoltStore) CheckMigration() (*MigrationResult, error) {
	version, err := s.GetSchemaVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	result := &MigrationResult{
		OldVersion: version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", version, CurrentSchemaVersion)
	case version > CurrentSchemaVersion:
		result.Unsupported = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", version, CurrentSchemaVersion)
	}

	return result, nil
}

// Migrate performs any necessary schema migrations.
func (s *BoltStore) Migrate() error {
	version, err := s.GetSchemaVersion()
	if err != nil {
		return err
	}
	if version > CurrentSchemaVersion {
		return fmt.Errorf("database schema v%d is newer than supported v%d", version, CurrentSchemaVersion)
	}

	for v := version; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	return s.setSchemaVersion(CurrentSchemaVersion)
}

// runMigration runs a specific version migration.
func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 1 && to == 2:
		// v2 indexes rule sets by content hash.
		return s.db.Update(func(tx *bbolt.Tx) error {
			hashes, err := tx.CreateBucketIfNotExists(bucketHashes)
			if err != nil {
				return err
			}
			return tx.Bucket(bucketRuleSets).ForEach(func(k, v []byte) error {
				var rec ruleSetRecord
				if err := json.Unmarshal(v, &rec); err != nil {
					return err
				}
				rs := domain.RuleSet{Lowercase: rec.Lowercase, Rules: rec.Rules}
				return indexName(hashes, rs.Hash(), string(k))
			})
		})
	default:
		return nil
	}
}
