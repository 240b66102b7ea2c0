package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/normalize"
)

// knownFields are the keys accepted in a facts file.
var knownFields = map[string]bool{
	normalize.FieldGender:         true,
	normalize.FieldBirthYear:      true,
	normalize.FieldCurrentAge:     true,
	"age":                         true,
	normalize.FieldInsuranceYears: true,
	normalize.FieldInsuranceDays:  true,
	normalize.FieldHeavyWorkYears: true,
	normalize.FieldSalary:         true,
	normalize.FieldFund:           true,
	normalize.FieldChildren:       true,
	normalize.FieldDataSource:     true,
}

// InputParser handles parsing of facts files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads facts from a YAML or JSON file. Fields left out of the
// file stay absent so the normalizer can default them.
func (ip *InputParser) LoadFromFile(filename string) (*domain.PartialFacts, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes facts from YAML (or JSON, which YAML accepts).
func (ip *InputParser) Parse(data []byte) (*domain.PartialFacts, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateFields(raw); err != nil {
		return nil, fmt.Errorf("facts validation failed: %w", err)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[strings.ToLower(k)] = v
	}
	partial, err := normalize.FromStrings(fields)
	if err != nil {
		return nil, fmt.Errorf("facts validation failed: %w", err)
	}
	return partial, nil
}

// ValidateFields rejects keys the calculator does not know, which are almost
// always typos that would otherwise silently fall back to a default.
func (ip *InputParser) ValidateFields(raw map[string]string) error {
	var unknown []string
	for k := range raw {
		if !knownFields[strings.ToLower(k)] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown fields: %s", strings.Join(unknown, ", "))
	}
	return nil
}
