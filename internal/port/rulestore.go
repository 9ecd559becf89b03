package port

import "textok/internal/domain"

type RuleSetStore interface {
	PutRuleSet(rs domain.RuleSet) error

	GetRuleSet(name string) (domain.StoredRuleSet, error)

	ListRuleSets() ([]domain.StoredRuleSet, error)

	DeleteRuleSet(name string) error

	FindByHash(hash string) ([]string, error)

	Close() error
}
