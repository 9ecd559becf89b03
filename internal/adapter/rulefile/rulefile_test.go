package rulefile

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"textok/internal/adapter/tokenizer"
	"textok/internal/domain"
)

const sample = "'\".<br />,()!?;:   Basic English Normalization for a Line of Text   '\".<br />,()!?;:"

func TestWriteRead_RebuildsEquivalentTokenizer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic_english.yaml")

	original := tokenizer.NewBasicEnglishNormalizer()
	if err := Write(path, original.RuleSet()); err != nil {
		t.Fatal(err)
	}

	rs, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := tokenizer.New(rs)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(loaded.Tokenize(sample), original.Tokenize(sample)) {
		t.Errorf("loaded tokenizer differs: %q vs %q", loaded.Tokenize(sample), original.Tokenize(sample))
	}
	if rs.Hash() != original.RuleSet().Hash() {
		t.Error("rule set hash changed through YAML")
	}
}

func TestDecode_HandWritten(t *testing.T) {
	doc := `
name: dashes
lowercase: true
rules:
  - pattern: '-+'
    replacement: ' - '
  - pattern: '\s+'
    replacement: ' '
`
	rs, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := domain.RuleSet{
		Name:      "dashes",
		Lowercase: true,
		Rules: []domain.Rule{
			{Pattern: `-+`, Replacement: " - "},
			{Pattern: `\s+`, Replacement: " "},
		},
	}
	if !reflect.DeepEqual(rs, expected) {
		t.Errorf("got %+v, want %+v", rs, expected)
	}
}

func TestDecode_PreservesSignificantWhitespace(t *testing.T) {
	rs := domain.RuleSet{Name: "ws", Rules: []domain.Rule{{Pattern: `'`, Replacement: " '  "}}}

	var buf strings.Builder
	if err := Encode(&buf, rs); err != nil {
		t.Fatal(err)
	}

	got, err := Decode(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Rules[0].Replacement != " '  " {
		t.Errorf("replacement whitespace lost: %q", got.Rules[0].Replacement)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown field", "name: x\nrulez: []\n"},
		{"bad yaml", "rules: [\n"},
	}

	for _, tt := range tests {
		if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestDecode_EmptyRules(t *testing.T) {
	rs, err := Decode(strings.NewReader("name: identity\n"))
	if err != nil {
		t.Fatal(err)
	}
	if rs.Rules == nil || len(rs.Rules) != 0 {
		t.Errorf("expected empty non-nil rules, got %#v", rs.Rules)
	}
}

func TestRead_Missing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
