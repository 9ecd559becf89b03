package tokenizer

import (
	"regexp"
	"strings"

	"textok/internal/domain"
)

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// RegexTokenizer rewrites text with an ordered list of rules and splits the
// result on whitespace. It holds no per-call state and may be shared.
type RegexTokenizer struct {
	name      string
	lowercase bool
	rules     []domain.Rule
	compiled  []compiledRule
}

// NewRegexTokenizer compiles rules in order. The first pattern that fails
// to compile aborts construction.
func NewRegexTokenizer(rules []domain.Rule) (*RegexTokenizer, error) {
	return New(domain.RuleSet{Rules: rules})
}

// New builds a tokenizer from a rule set.
func New(rs domain.RuleSet) (*RegexTokenizer, error) {
	compiled := make([]compiledRule, 0, len(rs.Rules))
	for i, r := range rs.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, &InvalidPatternError{Index: i, Pattern: r.Pattern, Err: err}
		}
		compiled = append(compiled, compiledRule{re: re, replacement: r.Replacement})
	}

	rules := make([]domain.Rule, len(rs.Rules))
	copy(rules, rs.Rules)

	return &RegexTokenizer{
		name:      rs.Name,
		lowercase: rs.Lowercase,
		rules:     rules,
		compiled:  compiled,
	}, nil
}

// Tokenize applies every rule in order, then splits on runs of whitespace.
// Case folding, when enabled, happens before the first rule.
func (t *RegexTokenizer) Tokenize(text string) []string {
	working := t.Normalize(text)
	tokens := strings.Fields(working)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// Normalize returns the working string after all rewrites, before splitting.
func (t *RegexTokenizer) Normalize(text string) string {
	working := text
	if t.lowercase {
		working = strings.ToLower(working)
	}
	for _, r := range t.compiled {
		working = r.re.ReplaceAllLiteralString(working, r.replacement)
	}
	return working
}

// CountTokens returns the number of tokens Tokenize would produce.
func (t *RegexTokenizer) CountTokens(text string) int {
	return len(strings.Fields(t.Normalize(text)))
}

// Rules returns a copy of the rule list.
func (t *RegexTokenizer) Rules() []domain.Rule {
	rules := make([]domain.Rule, len(t.rules))
	copy(rules, t.rules)
	return rules
}

// RuleSet returns the configuration this tokenizer was built from. Passing
// it to New yields an equivalent tokenizer.
func (t *RegexTokenizer) RuleSet() domain.RuleSet {
	return domain.RuleSet{
		Name:      t.name,
		Lowercase: t.lowercase,
		Rules:     t.Rules(),
	}
}
