// Package output renders pension calculations for people and machines.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/domain"
)

// Report is what every formatter renders: the facts the engine saw, its
// result and, when a document was analysed, what was extracted from it.
type Report struct {
	Source      string                     `json:"source" yaml:"source"`
	GeneratedAt time.Time                  `json:"generated_at" yaml:"generated_at"`
	Extracted   *domain.PartialFacts       `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	Facts       *domain.InsuredPersonFacts `json:"facts,omitempty" yaml:"facts,omitempty"`
	Result      *domain.PensionResult      `json:"result,omitempty" yaml:"result,omitempty"`

	Private              *calculation.PrivatePensionResult `json:"private,omitempty" yaml:"private,omitempty"`
	RequiredContribution *decimal.Decimal                  `json:"required_contribution,omitempty" yaml:"required_contribution,omitempty"`
	Forecast             []calculation.ForecastPoint       `json:"forecast,omitempty" yaml:"forecast,omitempty"`
}

// Formatter turns a Report into bytes.
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string                      { return f.ID }
func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"plain":   ConsoleFormatter{Plain: true},
	"json":    JSONFormatter{Pretty: true},
	"ndjson":  JSONFormatter{},
	"csv":     CSVFormatter{},
	"yaml":    YAMLFormatter{},
}

var formatterAliases = map[string]string{
	"text":  "plain",
	"table": "console",
	"yml":   "yaml",
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil when there is none.
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := formatterAliases[key]; ok {
		key = canonical
	}
	return formatters[key]
}

// AvailableFormatterNames lists every accepted name, aliases included.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters)+len(formatterAliases))
	for n := range formatters {
		names = append(names, n)
	}
	for a := range formatterAliases {
		names = append(names, a)
	}
	sort.Strings(names)
	return names
}

// Lookup is GetFormatterByName with an error listing the accepted names.
func Lookup(format string) (Formatter, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(AvailableFormatterNames(), ", "))
	}
	return f, nil
}

// FileExtension is the suffix WriteFormatted should use for f's output.
func FileExtension(f Formatter) string {
	switch t := f.(type) {
	case JSONFormatter:
		if t.Pretty {
			return "json"
		}
		return "ndjson"
	case CSVFormatter:
		return "csv"
	case YAMLFormatter:
		return "yaml"
	}
	return "txt"
}

// WriteFormatted writes the formatted report to a timestamped file in the
// working directory and returns its name.
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", fmt.Errorf("failed to format report: %w", err)
	}
	filename := fmt.Sprintf("pension_report_%s.%s", time.Now().Format("20060102_150405"), strings.TrimPrefix(ext, "."))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
