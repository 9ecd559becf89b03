package tokenizer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern matches every *InvalidPatternError via errors.Is.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnknownTokenizer is returned by Get for names with no built-in tokenizer.
	ErrUnknownTokenizer = errors.New("unknown tokenizer")
)

// InvalidPatternError reports a rule whose pattern does not compile.
type InvalidPatternError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("rule %d: invalid pattern %q: %v", e.Index, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}
