package port

import "textok/internal/domain"

type Tokenizer interface {
	Tokenize(text string) []string

	CountTokens(text string) int

	RuleSet() domain.RuleSet
}
