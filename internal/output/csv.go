package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

var csvHeader = []string{
	"Source", "Gender", "BirthYear", "CurrentAge", "InsuranceYears", "HeavyWorkYears", "Salary", "Fund", "Children",
	"BasicPension", "NationalPension", "SocialBenefit", "ChildrenBenefit", "TotalPension", "ReplacementRate",
	"RetirementAge", "YearsRemaining", "EligibleFull", "EligibleEarly", "EligibleHeavy",
}

// CSVFormatter writes one row per report under a fixed header.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	return c.FormatBatch([]*Report{r})
}

// FormatBatch renders several reports as one table, in the given order.
func (CSVFormatter) FormatBatch(reports []*Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range reports {
		if r == nil {
			continue
		}
		if err := w.Write(csvRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRow(r *Report) []string {
	row := make([]string, len(csvHeader))
	row[0] = r.Source
	if f := r.Facts; f != nil {
		row[1] = string(f.Gender)
		row[2] = strconv.Itoa(f.BirthYear)
		row[3] = strconv.Itoa(f.CurrentAge)
		row[4] = f.InsuranceYears.StringFixed(1)
		row[5] = strconv.Itoa(f.HeavyWorkYears)
		row[6] = f.Salary.StringFixed(2)
		row[7] = string(f.Fund)
		row[8] = strconv.Itoa(f.Children)
	}
	if res := r.Result; res != nil {
		row[9] = res.BasicPension.StringFixed(2)
		row[10] = res.NationalPension.StringFixed(2)
		row[11] = res.SocialBenefit.StringFixed(2)
		row[12] = res.ChildrenBenefit.StringFixed(2)
		row[13] = res.TotalPension.StringFixed(2)
		row[14] = res.ReplacementRate.StringFixed(1)
		row[15] = strconv.Itoa(res.RetirementAge)
		row[16] = strconv.Itoa(res.YearsRemaining)
		row[17] = strconv.FormatBool(res.EligibleForFull)
		row[18] = strconv.FormatBool(res.EligibleForEarly)
		row[19] = strconv.FormatBool(res.EligibleForHeavy)
	}
	return row
}
