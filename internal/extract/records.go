package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
	"github.com/rgehrsitz/grpension/pkg/dateutil"
	money "github.com/rgehrsitz/grpension/pkg/decimal"
)

// Column names understood in tabular insurance records.
const (
	colInsuranceDays = "insurance_days"
	colStartDate     = "start_date"
	colEndDate       = "end_date"
	colSalary        = "salary_amount"
	colBirthDate     = "birth_date"
	colFundCode      = "fund_code"
	colFirstName     = "first_name"
)

// record is one row of an insurance history with lower-cased column names.
type record map[string]string

func (r record) get(col string) string {
	return strings.TrimSpace(r[col])
}

// aggregateRecords folds an insurance history into one set of facts: day
// counts and date spans are summed over all rows, salaries averaged, and the
// personal fields are read from the first row only.
func aggregateRecords(records []record, source string, log logging.Logger) *domain.PartialFacts {
	log = logging.OrNop(log)
	p := newPartial(source)
	p.Records = len(records)
	if len(records) == 0 {
		p.Note("no records found")
		return p
	}

	totalDays := 0
	salarySum := decimal.Zero
	salaryCount := 0
	for i, rec := range records {
		if v := rec.get(colInsuranceDays); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				totalDays += n
			} else {
				log.Debugf("record %d: ignoring insurance_days %q", i+1, v)
			}
		}

		if period, ok := periodFromRecord(rec); ok {
			totalDays += period.Days
			p.Periods = append(p.Periods, period)
		}

		if v := rec.get(colSalary); v != "" {
			if amount, ok := money.ParseAmount(v); ok {
				salarySum = salarySum.Add(amount)
				salaryCount++
			} else {
				log.Debugf("record %d: ignoring salary_amount %q", i+1, v)
			}
		}
	}

	if totalDays > 0 {
		p.InsuranceDays = ptr(totalDays)
	}
	if salaryCount > 0 {
		p.Salary = ptr(salarySum.Div(decimal.NewFromInt(int64(salaryCount))).Round(2))
	}

	first := records[0]
	if v := first.get(colBirthDate); v != "" {
		if bd, ok := dateutil.ParseDate(v); ok {
			p.BirthDate = ptr(bd)
			p.BirthYear = ptr(bd.Year())
		} else {
			p.Note(fmt.Sprintf("unreadable birth_date %q", v))
		}
	}
	if v := first.get(colFundCode); v != "" {
		p.Fund = ptr(domain.ParseFund(v))
	}
	if v := first.get(colFirstName); v != "" {
		p.Gender = ptr(GenderFromFirstName(v))
	}

	log.Debugf("aggregated %d records: %d days over %d periods, %d salaries", len(records), totalDays, len(p.Periods), salaryCount)
	return p
}

func periodFromRecord(rec record) (domain.InsurancePeriod, bool) {
	start, ok := dateutil.ParseDate(rec.get(colStartDate))
	if !ok {
		return domain.InsurancePeriod{}, false
	}
	end, ok := dateutil.ParseDate(rec.get(colEndDate))
	if !ok {
		return domain.InsurancePeriod{}, false
	}
	days := dateutil.DaysBetween(start, end)
	if days == 0 {
		return domain.InsurancePeriod{}, false
	}
	return domain.InsurancePeriod{Start: start, End: end, Days: days}, true
}
