package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/domain"
)

func buildTestReport(t *testing.T) *Report {
	t.Helper()
	facts := &domain.InsuredPersonFacts{
		Gender:         domain.GenderMale,
		BirthYear:      1958,
		CurrentAge:     67,
		InsuranceYears: decimal.NewFromInt(40),
		Salary:         decimal.NewFromInt(1000),
		Fund:           domain.FundIKA,
		DataSource:     "manual",
		Notes:          []string{"heavy work years not provided, assumed 0"},
	}
	res, err := calculation.Compute(facts)
	require.NoError(t, err)
	return &Report{
		Source:      "statement.pdf",
		GeneratedAt: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Extracted:   &domain.PartialFacts{Notes: []string{"no AMKA found"}},
		Facts:       facts,
		Result:      res,
	}
}

func TestFormatterFunc(t *testing.T) {
	called := false
	f := FormatterFunc{ID: "test-formatter", F: func(r *Report) ([]byte, error) {
		called = true
		return []byte("test output"), nil
	}}

	out, err := f.Format(&Report{})
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "test-formatter", f.Name())
	assert.Equal(t, []byte("test output"), out)
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console", "console"},
		{"CONSOLE", "console"},
		{"table", "console"},
		{"text", "plain"},
		{"json", "json"},
		{"ndjson", "ndjson"},
		{"csv", "csv"},
		{"yml", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("html"), "html reports are not produced")
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()
	assert.Contains(t, names, "console")
	assert.Contains(t, names, "yml")
	assert.IsIncreasing(t, names)
}

func TestLookup(t *testing.T) {
	f, err := Lookup("YML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", f.Name())

	_, err = Lookup("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: pdf")
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"console", "txt"},
		{"plain", "txt"},
		{"json", "json"},
		{"ndjson", "ndjson"},
		{"csv", "csv"},
		{"yaml", "yaml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileExtension(GetFormatterByName(tt.format)), tt.format)
	}
	assert.Equal(t, "txt", FileExtension(FormatterFunc{ID: "custom"}))
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{Plain: true}.Format(buildTestReport(t))
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "GREEK STATE PENSION ESTIMATE")
	assert.Contains(t, s, "Source: statement.pdf")
	assert.Contains(t, s, "€800,00")
	assert.Contains(t, s, "€384,00")
	assert.Contains(t, s, "€1.184,00")
	assert.Contains(t, s, "80.0%")
	assert.Contains(t, s, "- no AMKA found")
	assert.Contains(t, s, "- heavy work years not provided, assumed 0")
	assert.NotContains(t, s, "PRIVATE PENSION")
}

func TestConsoleFormatter_Styled(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	assert.Contains(t, string(out), "€1.184,00")
}

func TestConsoleFormatter_PrivateAndForecast(t *testing.T) {
	p, err := calculation.ProjectPrivatePension(calculation.PrivatePensionInput{
		CurrentAge: 60, RetirementAge: 65, MonthlyContribution: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	r := &Report{
		Private:  p,
		Forecast: calculation.ForecastPension(decimal.NewFromInt(1000), decimal.RequireFromString("0.1"), 2, 2025),
	}

	out, err := ConsoleFormatter{Plain: true}.Format(r)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "PRIVATE PENSION")
	assert.Contains(t, s, "€18.000,00")
	assert.Contains(t, s, "FORECAST")
	assert.Contains(t, s, "€1.210,00")
	assert.NotContains(t, s, "MONTHLY PENSION")
}

func TestConsoleFormatter_Nil(t *testing.T) {
	_, err := ConsoleFormatter{}.Format(nil)
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	r := buildTestReport(t)
	out, err := JSONFormatter{Pretty: true}.Format(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	result := decoded["result"].(map[string]any)
	assert.Equal(t, "1184", result["total_pension"])
	assert.Equal(t, "statement.pdf", decoded["source"])

	compact, err := JSONFormatter{}.Format(r)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(compact, []byte("\n")))
}

func TestYAMLFormatter(t *testing.T) {
	out, err := YAMLFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	var decoded struct {
		Facts struct {
			Fund string `yaml:"fund"`
		} `yaml:"facts"`
		Result struct {
			RetirementAge int `yaml:"retirement_age"`
		} `yaml:"result"`
	}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "ika", decoded.Facts.Fund)
	assert.Equal(t, 67, decoded.Result.RetirementAge)
}

func TestCSVFormatter(t *testing.T) {
	r := buildTestReport(t)
	out, err := CSVFormatter{}.FormatBatch([]*Report{r, nil, {Source: "broken.png"}})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "statement.pdf", rows[1][0])
	assert.Equal(t, "1184.00", rows[1][13])
	assert.Equal(t, "80.0", rows[1][14])
	assert.Equal(t, "true", rows[1][17])
	assert.Equal(t, "broken.png", rows[2][0])
	assert.Empty(t, rows[2][13])
}

func TestWriteFormatted(t *testing.T) {
	chdir(t, t.TempDir())

	filename, err := WriteFormatted(FormatterFunc{ID: "t", F: func(*Report) ([]byte, error) {
		return []byte("content"), nil
	}}, &Report{}, ".txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "pension_report_"))
	assert.True(t, strings.HasSuffix(filename, ".txt"))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	_, err := WriteFormatted(FormatterFunc{ID: "e", F: func(*Report) ([]byte, error) {
		return nil, errors.New("formatter error")
	}}, &Report{}, "txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatter error")
}

func TestSummary(t *testing.T) {
	r := buildTestReport(t)
	assert.Equal(t, "a.pdf: €1.184,00/month (retirement age 67)", Summary("a.pdf", r.Result))
	assert.Equal(t, "b.png: no result", Summary("b.png", nil))
}
