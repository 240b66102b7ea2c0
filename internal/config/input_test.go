package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/grpension/internal/domain"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	facts, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, facts, "Should return nil facts")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644))

	facts, err := NewInputParser().LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, facts)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "facts.yaml")
	validYAML := `
gender: γυναίκα
birth_year: 1968
insurance_years: 33.5
salary: "1.450,00"
fund: ΟΑΕΕ
children: 2
`
	require.NoError(t, os.WriteFile(validFile, []byte(validYAML), 0644))

	facts, err := NewInputParser().LoadFromFile(validFile)
	require.NoError(t, err)

	assert.Equal(t, domain.GenderFemale, *facts.Gender)
	assert.Equal(t, 1968, *facts.BirthYear)
	assert.True(t, decimal.RequireFromString("33.5").Equal(*facts.InsuranceYears))
	assert.True(t, decimal.NewFromInt(1450).Equal(*facts.Salary))
	assert.Equal(t, domain.FundOAEE, *facts.Fund)
	assert.Equal(t, 2, *facts.Children)
	assert.Nil(t, facts.CurrentAge, "left for the normalizer")
	assert.Nil(t, facts.HeavyWorkYears)
}

func TestInputParser_ParseJSON(t *testing.T) {
	facts, err := NewInputParser().Parse([]byte(`{"Age": 61, "insurance_days": 9000, "heavy_work_years": 15}`))
	require.NoError(t, err)

	assert.Equal(t, 61, *facts.CurrentAge)
	assert.Equal(t, 9000, *facts.InsuranceDays)
	assert.Equal(t, 15, *facts.HeavyWorkYears)
}

func TestInputParser_UnknownField(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("salery: 1500\nchildren: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fields: salery")
}

func TestInputParser_InvalidValue(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("children: many\n"))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "children", verr.Field)
}

func TestInputParser_EmptyFile(t *testing.T) {
	facts, err := NewInputParser().Parse(nil)
	require.NoError(t, err)
	assert.True(t, facts.Empty())
}
