package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/grpension/internal/domain"
)

func fixedNow() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

// run executes a fresh command tree inside an empty working directory so no
// stray settings or .env file is picked up.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	chdir(t, dir)
	cmd := newRootCmd(&app{now: fixedNow})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeJSON(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd
	require.NotNil(t, cmd)
	assert.Equal(t, "grpension", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.Flag("help"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRootCommand_Help(t *testing.T) {
	for _, args := range [][]string{{}, {"--help"}} {
		out, err := run(t, t.TempDir(), args...)
		assert.NoError(t, err)
		assert.Contains(t, out, "Greek state pension")
	}
}

func TestRootCommand_InvalidInput(t *testing.T) {
	_, err := run(t, t.TempDir(), "invalid-command")
	assert.Error(t, err)

	_, err = run(t, t.TempDir(), "--invalid-flag")
	assert.Error(t, err)
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"calculate", "validate", "extract", "private", "serve", "version"}

	registered := map[string]*cobra.Command{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = c
	}
	for _, name := range expected {
		assert.Contains(t, registered, name, "command %s should be registered", name)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "facts.yaml", "gender: male\n")

	assert.True(t, fileExists(path))
	assert.False(t, fileExists(filepath.Join(dir, "non_existing_file.txt")))
}

func TestCalculate_Flags(t *testing.T) {
	out, err := run(t, t.TempDir(), "calculate",
		"--gender", "male", "--birth-year", "1958", "--age", "67",
		"--years", "40", "--salary", "1000", "--fund", "ika", "--format", "json")
	require.NoError(t, err)

	m := decodeJSON(t, out)
	assert.Equal(t, "flags", m["source"])
	result := m["result"].(map[string]any)
	assert.Equal(t, "1184", result["total_pension"])
	assert.Equal(t, true, result["eligible_for_full"])
	assert.Equal(t, "manual", m["facts"].(map[string]any)["data_source"])
}

func TestCalculate_FileWithOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "facts.yaml", `gender: Γυναίκα
birth_year: 1968
current_age: 57
insurance_years: "30,5"
salary: "1.450,00"
fund: ΙΚΑ
children: 1
`)

	out, err := run(t, dir, "calculate", path, "--children", "2", "-f", "json")
	require.NoError(t, err)

	m := decodeJSON(t, out)
	assert.Equal(t, path, m["source"])
	facts := m["facts"].(map[string]any)
	assert.Equal(t, "female", facts["gender"])
	assert.Equal(t, "1450", facts["salary"])
	assert.EqualValues(t, 2, facts["children"])
	assert.Equal(t, "100", m["result"].(map[string]any)["children_benefit"])
}

func TestCalculate_Console(t *testing.T) {
	out, err := run(t, t.TempDir(), "calculate", "--age", "67", "--birth-year", "1958",
		"--years", "40", "--salary", "1000", "--format", "plain", "--forecast")
	require.NoError(t, err)

	assert.Contains(t, out, "GREEK STATE PENSION ESTIMATE")
	assert.Contains(t, out, "€1.184,00")
	assert.Contains(t, out, "FORECAST")
	assert.Contains(t, out, "2035")
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"calculate", "nope.yaml"}, "facts file not found"},
		{"bad salary flag", []string{"calculate", "--salary", "lots"}, "salary"},
		{"unknown format", []string{"calculate", "--format", "html"}, "unsupported format"},
		{"too many args", []string{"calculate", "a.yaml", "b.yaml"}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, t.TempDir(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error()+out, tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "gender: male\ncurrent_age: 60\n")
	bad := writeFile(t, dir, "bad.yaml", "gender: robot\n")

	out, err := run(t, dir, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "note:")

	_, err = run(t, dir, "validate", bad)
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestExtract_CSVBatch(t *testing.T) {
	dir := t.TempDir()
	history := writeFile(t, dir, "history.csv",
		"first_name,birth_date,insurance_days,salary_amount\nΜαρία,15/05/1970,7305,1000\n")

	out, err := run(t, dir, "extract", history, "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Source,Gender"))
	assert.Contains(t, lines[1], history)
	assert.Contains(t, lines[1], ",female,1970,55,20.0,")
}

func TestExtract_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	history := writeFile(t, dir, "history.json", `{"gender":"female","birth_year":1970,"insurance_years":20}`)
	notes := writeFile(t, dir, "notes.docx", "whatever")

	out, err := run(t, dir, "extract", history, notes, "missing.csv", "-f", "ndjson")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "missing.csv")

	m := decodeJSON(t, strings.Split(strings.TrimSpace(out), "\n")[0])
	assert.Equal(t, history, m["source"])
	assert.Equal(t, "female", m["facts"].(map[string]any)["gender"])
}

func savedReport(t *testing.T, out, ext string) []byte {
	t.Helper()
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "Report written to "))
	assert.True(t, strings.HasPrefix(name, "pension_report_"), out)
	assert.True(t, strings.HasSuffix(name, "."+ext), out)
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return data
}

func TestCalculate_Save(t *testing.T) {
	out, err := run(t, t.TempDir(), "calculate", "--age", "67", "--birth-year", "1958",
		"--years", "40", "--salary", "1000", "--format", "json", "--save")
	require.NoError(t, err)

	m := decodeJSON(t, string(savedReport(t, out, "json")))
	assert.Equal(t, "1184", m["result"].(map[string]any)["total_pension"])
}

func TestExtract_SaveBatch(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.csv", "insurance_days,salary_amount\n7305,1000\n")
	second := writeFile(t, dir, "second.csv", "insurance_days,salary_amount\n3652,900\n")

	out, err := run(t, dir, "extract", first, second, "-f", "csv", "--save")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(savedReport(t, out, "csv"))), "\n")
	require.Len(t, lines, 3, "one header and a row per file")
	assert.Contains(t, lines[1], first)
	assert.Contains(t, lines[2], second)
}

func TestExtract_PlainBatchKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.csv", "insurance_days\n7305\n")
	second := writeFile(t, dir, "second.json", `{"insurance_years": 30}`)

	out, err := run(t, dir, "extract", first, second, "-f", "plain")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "GREEK STATE PENSION ESTIMATE"))
	assert.Less(t, strings.Index(out, first), strings.Index(out, second))
}

func TestPrivate(t *testing.T) {
	out, err := run(t, t.TempDir(), "private", "--age", "60", "--retirement-age", "65",
		"--contribution", "300", "--return", "0", "--inflation", "0",
		"--target", "60", "--forecast-years", "2", "-f", "json")
	require.NoError(t, err)

	m := decodeJSON(t, out)
	private := m["private"].(map[string]any)
	assert.Equal(t, "18000", private["total_accumulated"])
	assert.Equal(t, "60", private["monthly_pension"])
	assert.Equal(t, "300", m["required_contribution"])
	forecast := m["forecast"].([]any)
	require.Len(t, forecast, 2)
	assert.EqualValues(t, 2031, forecast[0].(map[string]any)["year"])
}

func TestPrivate_Errors(t *testing.T) {
	_, err := run(t, t.TempDir(), "private", "--age", "67", "--retirement-age", "60")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "retirement_age", verr.Field)

	_, err = run(t, t.TempDir(), "private", "--savings", "a lot")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "savings", verr.Field)
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "grpension dev")
}
