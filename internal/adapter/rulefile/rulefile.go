// Package rulefile reads and writes rule sets as YAML documents, so a
// tokenizer's configuration can be kept in version control and rebuilt with
// tokenizer.New.
package rulefile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"textok/internal/domain"
)

// Encode writes rs as YAML.
func Encode(w io.Writer, rs domain.RuleSet) error {
	if rs.Rules == nil {
		rs.Rules = []domain.Rule{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rs); err != nil {
		return fmt.Errorf("encode rule set: %w", err)
	}
	return enc.Close()
}

// Decode reads a single rule set. Unknown fields are rejected so typos in
// hand-written files surface early.
func Decode(r io.Reader) (domain.RuleSet, error) {
	var rs domain.RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		if err == io.EOF {
			return rs, fmt.Errorf("decode rule set: empty document")
		}
		return rs, fmt.Errorf("decode rule set: %w", err)
	}
	if rs.Rules == nil {
		rs.Rules = []domain.Rule{}
	}
	return rs, nil
}

// Write saves rs to path.
func Write(path string, rs domain.RuleSet) error {
	var buf bytes.Buffer
	if err := Encode(&buf, rs); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Read loads a rule set from path.
func Read(path string) (domain.RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RuleSet{}, err
	}
	defer f.Close()
	return Decode(f)
}
