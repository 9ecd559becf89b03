package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"textok/config"
	"textok/internal/adapter/rulefile"
	"textok/internal/adapter/store"
	"textok/internal/adapter/tokenizer"
	"textok/internal/domain"
	"textok/internal/port"
)

// ErrBuiltinName is returned when saving or deleting under a built-in name.
var ErrBuiltinName = errors.New("name is reserved for a built-in tokenizer")

// RuleSetUseCase manages stored rule sets and builds tokenizers from them.
type RuleSetUseCase struct {
	store  port.RuleSetStore
	logger *slog.Logger
}

// NewRuleSetUseCase creates a new rule set use case. store may be nil, in
// which case only built-in and inline tokenizers resolve.
func NewRuleSetUseCase(store port.RuleSetStore) *RuleSetUseCase {
	return &RuleSetUseCase{
		store:  store,
		logger: slog.Default(),
	}
}

// RuleSetInfo summarizes a rule set for listing.
type RuleSetInfo struct {
	Name      string    `json:"name"`
	Rules     int       `json:"rules"`
	Lowercase bool      `json:"lowercase"`
	Builtin   bool      `json:"builtin"`
	Hash      string    `json:"hash"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Save validates rs by building a tokenizer from it, then stores it.
// Nothing is stored when a pattern does not compile.
func (u *RuleSetUseCase) Save(rs domain.RuleSet) error {
	if rs.Name == "" {
		return fmt.Errorf("rule set name is required")
	}
	if tokenizer.IsBuiltin(rs.Name) {
		return fmt.Errorf("%w: %s", ErrBuiltinName, rs.Name)
	}
	if _, err := tokenizer.New(rs); err != nil {
		return err
	}
	if u.store == nil {
		return fmt.Errorf("no rule set store configured")
	}
	if err := u.store.PutRuleSet(rs); err != nil {
		return fmt.Errorf("failed to store rule set: %w", err)
	}
	u.logger.Debug("saved rule set", "name", rs.Name, "rules", len(rs.Rules), "hash", rs.Hash())
	return nil
}

// Identical returns the names of other saved rule sets whose rules and case
// folding match rs exactly.
func (u *RuleSetUseCase) Identical(rs domain.RuleSet) ([]string, error) {
	if u.store == nil {
		return nil, nil
	}
	names, err := u.store.FindByHash(rs.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to look up rule set hash: %w", err)
	}
	others := make([]string, 0, len(names))
	for _, n := range names {
		if n != rs.Name {
			others = append(others, n)
		}
	}
	return others, nil
}

// Load builds the tokenizer registered under name. Built-in names resolve
// without touching the store.
func (u *RuleSetUseCase) Load(name string) (*tokenizer.RegexTokenizer, error) {
	if tokenizer.IsBuiltin(name) {
		return tokenizer.Get(name)
	}
	if u.store == nil {
		return nil, fmt.Errorf("%w: %s", tokenizer.ErrUnknownTokenizer, name)
	}

	stored, err := u.store.GetRuleSet(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", tokenizer.ErrUnknownTokenizer, name)
		}
		return nil, err
	}
	return tokenizer.New(stored.RuleSet)
}

// Resolve builds the tokenizer described by cfg. Inline rules win over a
// name.
func (u *RuleSetUseCase) Resolve(cfg config.TokenizerConfig) (*tokenizer.RegexTokenizer, error) {
	if len(cfg.Rules) > 0 {
		rs := domain.RuleSet{
			Name:      cfg.Name,
			Lowercase: cfg.Lowercase,
			Rules:     make([]domain.Rule, len(cfg.Rules)),
		}
		for i, r := range cfg.Rules {
			rs.Rules[i] = domain.Rule{Pattern: r.Pattern, Replacement: r.Replacement}
		}
		return tokenizer.New(rs)
	}

	name := cfg.Name
	if name == "" {
		name = tokenizer.BasicEnglish
	}
	return u.Load(name)
}

// List returns the built-in tokenizers followed by stored rule sets.
func (u *RuleSetUseCase) List() ([]RuleSetInfo, error) {
	var infos []RuleSetInfo
	for _, name := range []string{tokenizer.BasicEnglish, tokenizer.Whitespace} {
		t, err := tokenizer.Get(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, infoFor(t.RuleSet(), true, time.Time{}))
	}

	if u.store == nil {
		return infos, nil
	}

	stored, err := u.store.ListRuleSets()
	if err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	for _, s := range stored {
		infos = append(infos, infoFor(s.RuleSet, false, s.UpdatedAt))
	}
	return infos, nil
}

func infoFor(rs domain.RuleSet, builtin bool, updated time.Time) RuleSetInfo {
	return RuleSetInfo{
		Name:      rs.Name,
		Rules:     len(rs.Rules),
		Lowercase: rs.Lowercase,
		Builtin:   builtin,
		Hash:      rs.Hash(),
		UpdatedAt: updated,
	}
}

// Show returns the full rule set registered under name.
func (u *RuleSetUseCase) Show(name string) (domain.RuleSet, error) {
	t, err := u.Load(name)
	if err != nil {
		return domain.RuleSet{}, err
	}
	rs := t.RuleSet()
	rs.Name = name
	return rs, nil
}

// Delete removes a stored rule set.
func (u *RuleSetUseCase) Delete(name string) error {
	if tokenizer.IsBuiltin(name) {
		return fmt.Errorf("%w: %s", ErrBuiltinName, name)
	}
	if u.store == nil {
		return fmt.Errorf("no rule set store configured")
	}
	return u.store.DeleteRuleSet(name)
}

// Import reads a YAML rule file and saves it. A non-empty name overrides the
// name in the file.
func (u *RuleSetUseCase) Import(path, name string) (domain.RuleSet, error) {
	rs, err := rulefile.Read(path)
	if err != nil {
		return domain.RuleSet{}, err
	}
	if name != "" {
		rs.Name = name
	}
	if err := u.Save(rs); err != nil {
		return domain.RuleSet{}, err
	}
	return rs, nil
}

// Export writes the rule set registered under name to a YAML file.
func (u *RuleSetUseCase) Export(name, path string) error {
	rs, err := u.Show(name)
	if err != nil {
		return err
	}
	return rulefile.Write(path, rs)
}
