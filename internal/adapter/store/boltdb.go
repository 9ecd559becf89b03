package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"textok/internal/domain"
)

// ErrNotFound is returned when no rule set is stored under a name.
var ErrNotFound = errors.New("rule set not found")

var (
	bucketRuleSets = []byte("rulesets")
	bucketHashes   = []byte("ruleset_hashes")
	bucketMeta     = []byte("meta")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketRuleSets, bucketHashes, bucketMeta}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type ruleSetRecord struct {
	Lowercase bool          `json:"lowercase,omitempty"`
	Rules     []domain.Rule `json:"rules"`
	Hash      string        `json:"hash"`
	UpdatedAt int64         `json:"updated_at"`
}

func (r ruleSetRecord) toStored(name string) domain.StoredRuleSet {
	rules := r.Rules
	if rules == nil {
		rules = []domain.Rule{}
	}
	return domain.StoredRuleSet{
		RuleSet: domain.RuleSet{
			Name:      name,
			Lowercase: r.Lowercase,
			Rules:     rules,
		},
		UpdatedAt: time.Unix(r.UpdatedAt, 0),
	}
}

// PutRuleSet stores rs under rs.Name, replacing any previous version.
func (s *BoltStore) PutRuleSet(rs domain.RuleSet) error {
	if rs.Name == "" {
		return fmt.Errorf("rule set name is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		sets := tx.Bucket(bucketRuleSets)
		hashes := tx.Bucket(bucketHashes)

		if existing := sets.Get([]byte(rs.Name)); existing != nil {
			var old ruleSetRecord
			if err := json.Unmarshal(existing, &old); err == nil {
				if err := unindexName(hashes, old.Hash, rs.Name); err != nil {
					return err
				}
			}
		}

		rec := ruleSetRecord{
			Lowercase: rs.Lowercase,
			Rules:     rs.Rules,
			Hash:      rs.Hash(),
			UpdatedAt: time.Now().Unix(),
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := sets.Put([]byte(rs.Name), data); err != nil {
			return err
		}
		return indexName(hashes, rec.Hash, rs.Name)
	})
}

func (s *BoltStore) GetRuleSet(name string) (domain.StoredRuleSet, error) {
	var stored domain.StoredRuleSet
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRuleSets).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		var rec ruleSetRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		stored = rec.toStored(name)
		return nil
	})
	return stored, err
}

// FindByHash returns the sorted names of stored rule sets with the given
// content hash.
func (s *BoltStore) FindByHash(hash string) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		names, err = hashNames(tx.Bucket(bucketHashes), hash)
		return err
	})
	return names, err
}

// The hash index maps a content hash to the JSON list of names sharing it.
func hashNames(b *bbolt.Bucket, hash string) ([]string, error) {
	data := b.Get([]byte(hash))
	if data == nil {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("corrupt hash index %s: %w", hash, err)
	}
	return names, nil
}

func putHashNames(b *bbolt.Bucket, hash string, names []string) error {
	if len(names) == 0 {
		return b.Delete([]byte(hash))
	}
	sort.Strings(names)
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return b.Put([]byte(hash), data)
}

func indexName(b *bbolt.Bucket, hash, name string) error {
	names, err := hashNames(b, hash)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return putHashNames(b, hash, append(names, name))
}

func unindexName(b *bbolt.Bucket, hash, name string) error {
	names, err := hashNames(b, hash)
	if err != nil {
		return err
	}
	kept := names[:0]
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	return putHashNames(b, hash, kept)
}

// ListRuleSets returns all stored rule sets ordered by name.
func (s *BoltStore) ListRuleSets() ([]domain.StoredRuleSet, error) {
	var sets []domain.StoredRuleSet
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuleSets).ForEach(func(k, v []byte) error {
			var rec ruleSetRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt rule set %s: %w", k, err)
			}
			sets = append(sets, rec.toStored(string(k)))
			return nil
		})
	})
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].RuleSet.Name < sets[j].RuleSet.Name
	})
	return sets, err
}

func (s *BoltStore) DeleteRuleSet(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		sets := tx.Bucket(bucketRuleSets)
		data := sets.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		var rec ruleSetRecord
		if err := json.Unmarshal(data, &rec); err == nil {
			if err := unindexName(tx.Bucket(bucketHashes), rec.Hash, name); err != nil {
				return err
			}
		}
		return sets.Delete([]byte(name))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
