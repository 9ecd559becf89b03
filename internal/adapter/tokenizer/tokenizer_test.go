package tokenizer

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"textok/internal/domain"
)

const regexSample = "'\".<br />,()!?;:   Basic Regex Tokenization for a Line of Text   '\".<br />,()!?;:"

func samplePatterns() []domain.Rule {
	return []domain.Rule{
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
}

func TestRegexTokenizer_Sample(t *testing.T) {
	tok, err := NewRegexTokenizer(samplePatterns())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"'", ".", ",", "(", ")", "!", "?",
		"Basic", "Regex", "Tokenization", "for", "a", "Line", "of", "Text",
		"'", ".", ",", "(", ")", "!", "?",
	}

	got := tok.Tokenize(regexSample)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Tokenize() = %q, want %q", got, expected)
	}
}

func TestRegexTokenizer_RebuildFromRuleSet(t *testing.T) {
	tok, err := NewRegexTokenizer(samplePatterns())
	if err != nil {
		t.Fatal(err)
	}

	rebuilt, err := New(tok.RuleSet())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(tok.Tokenize(regexSample), rebuilt.Tokenize(regexSample)) {
		t.Error("tokenizer rebuilt from its rule set should behave identically")
	}
}

func TestRegexTokenizer_InvalidPattern(t *testing.T) {
	rules := []domain.Rule{
		{Pattern: `\s+`, Replacement: " "},
		{Pattern: `(`, Replacement: ""},
	}

	tok, err := NewRegexTokenizer(rules)
	if err == nil {
		t.Fatal("expected error for unbalanced group")
	}
	if tok != nil {
		t.Error("expected no tokenizer on failure")
	}
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}

	var patErr *InvalidPatternError
	if !errors.As(err, &patErr) {
		t.Fatalf("expected *InvalidPatternError, got %T", err)
	}
	if patErr.Index != 1 || patErr.Pattern != "(" {
		t.Errorf("unexpected error details: index=%d pattern=%q", patErr.Index, patErr.Pattern)
	}
}

func TestRegexTokenizer_EmptyRules(t *testing.T) {
	tok, err := NewRegexTokenizer(nil)
	if err != nil {
		t.Fatal(err)
	}

	got := tok.Tokenize("  hello,\tworld \n again ")
	expected := []string{"hello,", "world", "again"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Tokenize() = %q, want %q", got, expected)
	}
}

func TestRegexTokenizer_Totality(t *testing.T) {
	tok, err := NewRegexTokenizer(samplePatterns())
	if err != nil {
		t.Fatal(err)
	}

	inputs := []string{"", " ", "\t\n\r ", "  ", ";:;:", "\"\"\"", "\xff\xfe"}
	for _, in := range inputs {
		got := tok.Tokenize(in)
		if got == nil {
			t.Errorf("Tokenize(%q) returned nil", in)
		}
		for _, token := range got {
			if token == "" {
				t.Errorf("Tokenize(%q) produced an empty token", in)
			}
		}
	}

	for _, in := range inputs[:6] {
		if got := tok.Tokenize(in); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %q, want no tokens", in, got)
		}
	}
}

func TestRegexTokenizer_Determinism(t *testing.T) {
	tok := NewBasicEnglishNormalizer()

	first := tok.Tokenize(regexSample)
	second := tok.Tokenize(regexSample)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %q vs %q", first, second)
	}
}

func TestRegexTokenizer_OrderSensitivity(t *testing.T) {
	forward, err := NewRegexTokenizer([]domain.Rule{
		{Pattern: `a`, Replacement: "b"},
		{Pattern: `b`, Replacement: "c"},
	})
	if err != nil {
		t.Fatal(err)
	}
	reversed, err := NewRegexTokenizer([]domain.Rule{
		{Pattern: `b`, Replacement: "c"},
		{Pattern: `a`, Replacement: "b"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := forward.Tokenize("a"); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("forward order: got %q, want [c]", got)
	}
	if got := reversed.Tokenize("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("reversed order: got %q, want [b]", got)
	}
}

func TestRegexTokenizer_SingleScan(t *testing.T) {
	// "aa" -> "a" is applied once per rule, not until nothing matches.
	tok, err := NewRegexTokenizer([]domain.Rule{{Pattern: `aa`, Replacement: "a"}})
	if err != nil {
		t.Fatal(err)
	}

	if got := tok.Tokenize("aaaa"); !reflect.DeepEqual(got, []string{"aa"}) {
		t.Errorf("got %q, want [aa]", got)
	}
}

func TestRegexTokenizer_LiteralReplacement(t *testing.T) {
	tok, err := NewRegexTokenizer([]domain.Rule{{Pattern: `(\w+)@`, Replacement: "$1 at "}})
	if err != nil {
		t.Fatal(err)
	}

	got := tok.Tokenize("me@home")
	expected := []string{"$1", "at", "home"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %q, want %q", got, expected)
	}
}

func TestRegexTokenizer_WhitespaceCollapse(t *testing.T) {
	tok, err := NewRegexTokenizer(samplePatterns()[:11])
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		spread    string
		collapsed string
	}{
		{"one   two\t\tthree", "one two three"},
		{"\n\nHello,   world!\r\n", "Hello, world!"},
		{"a   b", "a b"},
	}

	for _, tt := range tests {
		got := tok.Tokenize(tt.spread)
		want := tok.Tokenize(tt.collapsed)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.spread, got, want)
		}
	}
}

func TestRegexTokenizer_RulesAreCopied(t *testing.T) {
	rules := samplePatterns()
	tok, err := NewRegexTokenizer(rules)
	if err != nil {
		t.Fatal(err)
	}

	rules[0].Replacement = "X"
	got := tok.Rules()
	if got[0].Replacement != " '  " {
		t.Errorf("caller mutation leaked into tokenizer: %q", got[0].Replacement)
	}

	got[1].Pattern = "Y"
	if tok.Rules()[1].Pattern != `\"` {
		t.Error("Rules() should return a copy")
	}
}

func TestRegexTokenizer_CountTokens(t *testing.T) {
	tok, err := NewRegexTokenizer(samplePatterns())
	if err != nil {
		t.Fatal(err)
	}

	if count := tok.CountTokens(regexSample); count != 22 {
		t.Errorf("expected 22 tokens, got %d", count)
	}
	if count := tok.CountTokens(""); count != 0 {
		t.Errorf("expected 0 for empty input, got %d", count)
	}
}

func TestRegexTokenizer_Concurrent(t *testing.T) {
	tok := NewBasicEnglishNormalizer()
	expected := tok.Tokenize(regexSample)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := tok.Tokenize(regexSample); !reflect.DeepEqual(got, expected) {
					errs <- "concurrent result differs"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}
