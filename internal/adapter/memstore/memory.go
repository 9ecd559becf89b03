package memstore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"textok/internal/adapter/store"
	"textok/internal/domain"
)

// MemoryStore keeps rule sets in process memory. It reports missing rule
// sets with store.ErrNotFound so callers can treat both stores alike.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]domain.StoredRuleSet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets: make(map[string]domain.StoredRuleSet),
	}
}

func (s *MemoryStore) PutRuleSet(rs domain.RuleSet) error {
	if rs.Name == "" {
		return fmt.Errorf("rule set name is required")
	}
	rules := make([]domain.Rule, len(rs.Rules))
	copy(rules, rs.Rules)
	rs.Rules = rules

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[rs.Name] = domain.StoredRuleSet{RuleSet: rs, UpdatedAt: time.Now()}
	return nil
}

func (s *MemoryStore) GetRuleSet(name string) (domain.StoredRuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.sets[name]
	if !ok {
		return domain.StoredRuleSet{}, fmt.Errorf("%w: %s", store.ErrNotFound, name)
	}
	return stored, nil
}

func (s *MemoryStore) ListRuleSets() ([]domain.StoredRuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sets := make([]domain.StoredRuleSet, 0, len(s.sets))
	for _, stored := range s.sets {
		sets = append(sets, stored)
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].RuleSet.Name < sets[j].RuleSet.Name
	})
	return sets, nil
}

func (s *MemoryStore) DeleteRuleSet(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sets[name]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, name)
	}
	delete(s.sets, name)
	return nil
}

// FindByHash returns the sorted names of rule sets with the given content hash.
func (s *MemoryStore) FindByHash(hash string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for name, stored := range s.sets {
		if stored.RuleSet.Hash() == hash {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
