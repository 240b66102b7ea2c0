package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
	"github.com/rgehrsitz/grpension/pkg/dateutil"
	money "github.com/rgehrsitz/grpension/pkg/decimal"
)

const (
	sep     = `[\s:\-]*`
	dateRe  = `\d{1,2}[/.\-]\d{1,2}[/.\-]\d{4}`
	numRe   = `\d[\d.,]*`
	wordRe  = `[A-ZΑ-Ω]+`
	fundTok = `[A-ZΑ-Ω.]+`
)

// Patterns run against upper-cased text with marks stripped; the first
// pattern that matches a field wins. Group 1 is the value.
var textPatterns = map[string][]*regexp.Regexp{
	"amka": {
		labelled(`ΑΜΚΑ|Α\.Μ\.Κ\.Α\.?|AMKA`, sep + `(\d{11})`),
		regexp.MustCompile(`(?:^|\D)(\d{11})(?:\D|$)`),
	},
	"afm": {
		labelled(`ΑΦΜ|Α\.Φ\.Μ\.?|AFM|TAX ID`, sep + `(\d{9})`),
		regexp.MustCompile(`(?:^|\D)(\d{9})(?:\D|$)`),
	},
	"birth_date": {
		labelled(`ΗΜΕΡΟΜΗΝΙΑ ΓΕΝΝΗΣΗΣ|ΓΕΝΝΗΣΗΣ?|DATE OF BIRTH|BIRTH DATE`, sep + `(` + dateRe + `)`),
	},
	"birth_year": {
		labelled(`ΕΤΟΣ ΓΕΝΝΗΣΗΣ|ΓΕΝΝΗΘΗΚΑ(?: ΤΟ)?|YEAR OF BIRTH|BIRTH YEAR`, sep + `(\d{4})`),
	},
	"age": {
		labelled(`ΗΛΙΚΙΑ|AGE`, sep + `(\d{1,3})`),
	},
	"gender": {
		labelled(`ΦΥΛΟ|GENDER|SEX`, sep + `(` + wordRe + `)`),
	},
	"insurance_days": {
		labelled(`ΗΜΕΡΕΣ ΑΣΦΑΛΙΣΗΣ?|ΑΣΦΑΛΙΣΜΕΝΕΣ ΗΜΕΡΕΣ|ΣΥΝΟΛΟ ΗΜΕΡΩΝ|INSURANCE DAYS`, sep + `(` + numRe + `)`),
		regexp.MustCompile(`(` + numRe + `)\s*ΗΜΕΡΕΣ ΑΣΦΑΛΙΣΗΣ`),
	},
	"insurance_years": {
		labelled(`ΕΤΗ ΑΣΦΑΛΙΣΗΣ?|ΑΣΦΑΛΙΣΤΙΚΑ ΕΤΗ|INSURANCE YEARS`, sep + `(\d+(?:[.,]\d+)?)`),
		regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*ΕΤΩΝ\s*ΑΣΦΑΛΙΣΗΣ`),
	},
	"salary": {
		labelled(`ΜΕΣΟΣ ΜΙΣΘΟΣ|ΜΙΣΘΟΣ|ΑΠΟΔΟΧΕΣ|ΕΙΣΟΔΗΜΑ|SALARY`, `[\s:\-€]*(` + numRe + `)`),
	},
	"fund": {
		labelled(`ΑΣΦΑΛΙΣΤΙΚΟ ΤΑΜΕΙΟ|ΤΑΜΕΙΟ|ΦΟΡΕΑΣ|FUND`, sep + `(` + fundTok + `)`),
	},
	"heavy_work_years": {
		labelled(`ΕΤΗ ΒΑΡΕΩΝ|ΒΑΡΕΑ ΚΑΙ ΑΝΘΥΓΙΕΙΝΑ|ΒΑΡΕΑ|HEAVY WORK YEARS`, sep + `(\d{1,2})`),
	},
	"children": {
		labelled(`ΑΡΙΘΜΟΣ ΤΕΚΝΩΝ|ΤΕΚΝΑ|ΠΑΙΔΙΑ|CHILDREN`, sep + `(\d{1,2})`),
	},
}

// periodPatterns capture a start and an end date of one insured span.
var periodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(` + dateRe + `)\s*[-–]\s*(` + dateRe + `)`),
	regexp.MustCompile(`(?:ΑΠΟ|ΑΡΧΗ:?)\s*(` + dateRe + `)\s*(?:ΕΩΣ|ΜΕΧΡΙ|ΤΕΛΟΣ:?)\s*(` + dateRe + `)`),
	regexp.MustCompile(`(?:FROM)\s*(` + dateRe + `)\s*(?:TO|UNTIL)\s*(` + dateRe + `)`),
}

// labelled anchors a label alternation at a word start. RE2's \b is ASCII
// only, so the letter check is spelled out.
func labelled(labels, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}])(?:` + labels + `)` + value)
}

// TextExtractor pulls facts out of free text such as a PDF text layer or an
// OCR transcript.
type TextExtractor struct {
	Logger logging.Logger
	Now    func() time.Time
}

func (e *TextExtractor) Extract(ctx context.Context, raw []byte, filename string) *domain.PartialFacts {
	return e.Analyze(string(raw), SourceText)
}

// Normalise upper-cases text and strips accents, matching the pattern alphabet.
func Normalise(text string) string {
	return strings.ToUpper(domain.StripMarks(text))
}

func firstMatch(field, text string) (string, bool) {
	for _, re := range textPatterns[field] {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Analyze applies the field patterns to text and tags the result with source.
func (e *TextExtractor) Analyze(text, source string) *domain.PartialFacts {
	log := logging.OrNop(e.Logger)
	p := newPartial(source)
	upper := Normalise(text)
	if strings.TrimSpace(upper) == "" {
		p.Note("document contains no text")
		return p
	}

	if v, ok := firstMatch("birth_date", upper); ok {
		if bd, ok := dateutil.ParseDate(v); ok {
			p.BirthDate = ptr(bd)
			p.BirthYear = ptr(bd.Year())
		}
	}
	if p.BirthYear == nil {
		if v, ok := firstMatch("birth_year", upper); ok {
			p.BirthYear = wholePtr(v)
		}
	}
	if v, ok := firstMatch("age", upper); ok {
		p.CurrentAge = wholePtr(v)
	}
	if v, ok := firstMatch("gender", upper); ok {
		if g, ok := domain.ParseGender(v); ok {
			p.Gender = &g
		} else {
			log.Debugf("gender label %q not recognised", v)
		}
	}
	if v, ok := firstMatch("insurance_years", upper); ok {
		if d, ok := money.ParseAmount(v); ok {
			p.InsuranceYears = &d
		}
	}
	if v, ok := firstMatch("insurance_days", upper); ok {
		p.InsuranceDays = countPtr(v)
	}
	if v, ok := firstMatch("salary", upper); ok {
		if d, ok := money.ParseAmount(strings.TrimRight(v, ".,")); ok {
			p.Salary = &d
		}
	}
	if v, ok := firstMatch("fund", upper); ok {
		if f, ok := domain.LookupFund(v); ok {
			p.Fund = &f
		}
	}
	if p.Fund == nil {
		if f, ok := detectFund(upper); ok {
			p.Fund = &f
		}
	}
	if v, ok := firstMatch("heavy_work_years", upper); ok {
		p.HeavyWorkYears = wholePtr(v)
	}
	if v, ok := firstMatch("children", upper); ok {
		p.Children = wholePtr(v)
	}
	if v, ok := firstMatch("afm", upper); ok {
		p.AFM = v
	}
	if v, ok := firstMatch("amka", upper); ok {
		applyAMKA(p, v, clock(e.Now))
	}

	p.Periods = findPeriods(upper)
	if len(p.Periods) > 0 && p.InsuranceDays == nil {
		total := 0
		for _, period := range p.Periods {
			total += period.Days
		}
		p.InsuranceDays = ptr(total)
		p.Note(fmt.Sprintf("insurance days summed from %d periods", len(p.Periods)))
	}

	log.Debugf("text analysis recovered %d periods, empty=%t", len(p.Periods), p.Empty())
	return p
}

// findPeriods returns each distinct start/end span with a positive length,
// in the order first seen.
func findPeriods(upper string) []domain.InsurancePeriod {
	type key struct{ start, end time.Time }
	seen := make(map[key]bool)
	var out []domain.InsurancePeriod
	for _, re := range periodPatterns {
		for _, m := range re.FindAllStringSubmatch(upper, -1) {
			start, ok1 := dateutil.ParseDate(m[1])
			end, ok2 := dateutil.ParseDate(m[2])
			if !ok1 || !ok2 || !start.Before(end) {
				continue
			}
			k := key{start, end}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, domain.InsurancePeriod{Start: start, End: end, Days: dateutil.DaysBetween(start, end)})
		}
	}
	return out
}

func wholePtr(s string) *int {
	n, ok := money.ParseWhole(s)
	if !ok || n < 0 {
		return nil
	}
	return &n
}

// countPtr reads a day count where dots and commas are thousands separators.
func countPtr(s string) *int {
	digits := strings.NewReplacer(".", "", ",", "").Replace(s)
	return wholePtr(digits)
}
