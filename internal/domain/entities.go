package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Rule is a single rewrite step: every match of Pattern is replaced by the
// literal Replacement.
type Rule struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// RuleSet is the plain-data configuration of a tokenizer.
type RuleSet struct {
	Name      string `json:"name" yaml:"name"`
	Lowercase bool   `json:"lowercase,omitempty" yaml:"lowercase,omitempty"`
	Rules     []Rule `json:"rules" yaml:"rules"`
}

// Hash returns a content hash of the rule set. The name is not part of it.
func (rs RuleSet) Hash() string {
	h := sha256.New()
	if rs.Lowercase {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	for _, r := range rs.Rules {
		h.Write([]byte(r.Pattern))
		h.Write([]byte{0})
		h.Write([]byte(r.Replacement))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// StoredRuleSet is a rule set as kept in the store.
type StoredRuleSet struct {
	RuleSet   RuleSet
	UpdatedAt time.Time
}

type FileTokens struct {
	Path   string   `json:"path"`
	Tokens []string `json:"tokens,omitempty"`
	Count  int      `json:"count"`
}
