package extract

import (
	"bytes"
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
	"github.com/rgehrsitz/grpension/pkg/dateutil"
	money "github.com/rgehrsitz/grpension/pkg/decimal"
)

// jsonSynonyms lists, per fact, the keys tried in priority order: English
// first, then transliterated, then Greek. Keys are compared folded, so case
// and tonos do not matter.
var jsonSynonyms = []struct {
	field string
	keys  []string
}{
	{"gender", []string{"gender", "sex", "fulo", "φυλο"}},
	{"birth_date", []string{"birth_date", "birthdate", "date_of_birth", "imerominia_gennisis", "ημερομηνια_γεννησης"}},
	{"birth_year", []string{"birth_year", "birthyear", "year_of_birth", "etos_gennisis", "ετος_γεννησης"}},
	{"current_age", []string{"age", "current_age", "ilikia", "ηλικια"}},
	{"insurance_years", []string{"insurance_years", "years_insured", "eti_asfalisis", "ετη_ασφαλισης"}},
	{"insurance_days", []string{"insurance_days", "days_insured", "imeres_asfalisis", "ημερες_ασφαλισης"}},
	{"salary", []string{"salary", "income", "wage", "misthos", "μισθος"}},
	{"heavy_work_years", []string{"heavy_work_years", "heavy_years", "varea_eti", "βαρεα_ετη"}},
	{"children", []string{"children", "kids", "paidia", "παιδια"}},
	{"fund", []string{"fund", "insurance_fund", "tameio", "ταμειο"}},
	{"amka", []string{"amka", "αμκα"}},
	{"afm", []string{"afm", "tax_id", "αφμ"}},
}

// JSONExtractor reads either a single facts object or an array of
// insurance records shaped like CSV rows.
type JSONExtractor struct {
	Logger logging.Logger
	Now    func() time.Time
}

func (e *JSONExtractor) Extract(ctx context.Context, raw []byte, filename string) *domain.PartialFacts {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		p := newPartial(SourceJSON)
		soft(e.Logger, p, "decoding "+filename, err)
		return p
	}

	switch v := doc.(type) {
	case []any:
		records := make([]record, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rec := make(record, len(obj))
			for k, val := range obj {
				rec[domain.Fold(k)] = scalar(val)
			}
			records = append(records, rec)
		}
		return aggregateRecords(records, SourceJSON, e.Logger)
	case map[string]any:
		return e.fromObject(v)
	default:
		p := newPartial(SourceJSON)
		p.Note(fmt.Sprintf("unexpected top-level JSON value of type %T", doc))
		return p
	}
}

func (e *JSONExtractor) fromObject(obj map[string]any) *domain.PartialFacts {
	log := logging.OrNop(e.Logger)
	folded := make(map[string]string, len(obj))
	for k, v := range obj {
		folded[domain.Fold(k)] = scalar(v)
	}

	p := newPartial(SourceJSON)
	values := make(map[string]string, len(jsonSynonyms))
	for _, syn := range jsonSynonyms {
		for _, key := range syn.keys {
			if v, ok := folded[domain.Fold(key)]; ok && v != "" {
				values[syn.field] = v
				log.Debugf("json key %q mapped to %s", key, syn.field)
				break
			}
		}
	}

	if v, ok := values["gender"]; ok {
		if g, ok := domain.ParseGender(v); ok {
			p.Gender = &g
		} else {
			p.Note(fmt.Sprintf("unrecognised gender %q", v))
		}
	}
	if v, ok := values["birth_date"]; ok {
		if bd, ok := dateutil.ParseDate(v); ok {
			p.BirthDate = ptr(bd)
			p.BirthYear = ptr(bd.Year())
		}
	}
	setWhole(p, values, "birth_year", &p.BirthYear)
	setWhole(p, values, "current_age", &p.CurrentAge)
	setWhole(p, values, "insurance_days", &p.InsuranceDays)
	setWhole(p, values, "heavy_work_years", &p.HeavyWorkYears)
	setWhole(p, values, "children", &p.Children)
	for field, dst := range map[string]**decimal.Decimal{
		"insurance_years": &p.InsuranceYears,
		"salary":          &p.Salary,
	} {
		if v, ok := values[field]; ok {
			if d, ok := money.ParseAmount(v); ok && !d.IsNegative() {
				*dst = &d
			} else {
				p.Note(fmt.Sprintf("unreadable %s %q", field, v))
			}
		}
	}
	if v, ok := values["fund"]; ok {
		p.Fund = ptr(domain.ParseFund(v))
	}
	if v, ok := values["afm"]; ok {
		p.AFM = v
	}
	if v, ok := values["amka"]; ok {
		applyAMKA(p, v, clock(e.Now))
	}
	return p
}

func setWhole(p *domain.PartialFacts, values map[string]string, field string, dst **int) {
	v, ok := values[field]
	if !ok || (field == "birth_year" && *dst != nil) {
		return
	}
	n, ok := money.ParseWhole(v)
	if !ok || n < 0 {
		p.Note(fmt.Sprintf("unreadable %s %q", field, v))
		return
	}
	*dst = &n
}

// scalar renders a decoded JSON value as the string a CSV cell would hold.
func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}
