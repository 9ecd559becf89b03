package tokenizer

import (
	"fmt"

	"textok/internal/domain"
)

// Names of the built-in tokenizers accepted by Get.
const (
	// BasicEnglish lower-cases and isolates common English punctuation.
	BasicEnglish = "basic_english"
	// Whitespace applies no rules and only splits on whitespace.
	Whitespace = "whitespace"
)

// basicEnglishRules is applied to lower-cased text. Order matters: the
// <br /> rule must see the slash before anything else touches it.
var basicEnglishRules = []domain.Rule{
	{Pattern: `\'`, Replacement: " '  "},
	{Pattern: `\"`, Replacement: ""},
	{Pattern: `\.`, Replacement: " . "},
	{Pattern: `<br \/>`, Replacement: " "},
	{Pattern: `,`, Replacement: " , "},
	{Pattern: `\(`, Replacement: " ( "},
	{Pattern: `\)`, Replacement: " ) "},
	{Pattern: `\!`, Replacement: " ! "},
	{Pattern: `\?`, Replacement: " ? "},
	{Pattern: `\;`, Replacement: " "},
	{Pattern: `\:`, Replacement: " "},
	{Pattern: `\s+`, Replacement: " "},
}

// BasicEnglishRuleSet returns a fresh copy of the built-in English rule set.
func BasicEnglishRuleSet() domain.RuleSet {
	rules := make([]domain.Rule, len(basicEnglishRules))
	copy(rules, basicEnglishRules)
	return domain.RuleSet{
		Name:      BasicEnglish,
		Lowercase: true,
		Rules:     rules,
	}
}

// NewBasicEnglishNormalizer lower-cases the input, spaces out common
// punctuation, drops quotes and <br /> markers, and splits on whitespace.
func NewBasicEnglishNormalizer() *RegexTokenizer {
	t, err := New(BasicEnglishRuleSet())
	if err != nil {
		panic(fmt.Sprintf("tokenizer: built-in rules: %v", err))
	}
	return t
}

// Get returns a built-in tokenizer by name.
func Get(name string) (*RegexTokenizer, error) {
	switch name {
	case BasicEnglish:
		return NewBasicEnglishNormalizer(), nil
	case Whitespace:
		return New(domain.RuleSet{Name: Whitespace})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTokenizer, name)
	}
}

// IsBuiltin reports whether Get knows name.
func IsBuiltin(name string) bool {
	return name == BasicEnglish || name == Whitespace
}
