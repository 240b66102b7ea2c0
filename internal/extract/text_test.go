package extract

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/grpension/internal/domain"
)

const certificate = `ΒΕΒΑΙΩΣΗ ΑΣΦΑΛΙΣΤΙΚΗΣ ΙΚΑΝΟΤΗΤΑΣ
Ονοματεπώνυμο: Παπαδοπούλου Ελένη
ΑΜΚΑ: 15037502468
ΑΦΜ: 123456789
Ημέρες ασφάλισης: 7.300
Μέσος μισθός: 1.250,50 €
Ασφαλιστικό ταμείο: ΕΦΚΑ
Τέκνα: 2
`

func TestTextExtractor_Certificate(t *testing.T) {
	p := (&TextExtractor{Now: fixedNow}).Analyze(certificate, SourcePDF)

	assert.Equal(t, "15037502468", p.AMKA)
	assert.Equal(t, "123456789", p.AFM)
	require.NotNil(t, p.BirthDate)
	assert.Equal(t, time.Date(1975, 3, 15, 0, 0, 0, 0, time.UTC), *p.BirthDate)
	assert.Equal(t, 1975, *p.BirthYear)
	assert.Equal(t, domain.GenderFemale, *p.Gender, "even AMKA check digit")
	assert.Equal(t, 7300, *p.InsuranceDays)
	assert.True(t, decimal.RequireFromString("1250.5").Equal(*p.Salary), "got %s", p.Salary)
	assert.Equal(t, domain.FundEFKA, *p.Fund)
	assert.Equal(t, 2, *p.Children)
	assert.Equal(t, SourcePDF, p.DataSource)

	assert.Nil(t, p.CurrentAge, "age is left to the normalizer")
	assert.Nil(t, p.InsuranceYears, "years are left to the normalizer")
	assert.Nil(t, p.HeavyWorkYears)
}

func TestTextExtractor_ExplicitFieldsBeatAMKA(t *testing.T) {
	text := "AMKA 01018012346\nΦύλο: Άνδρας\nΗμερομηνία γέννησης: 03/04/1966\nΕτη ασφάλισης: 31,5\nΗλικία: 59\nΒαρέα: 16"

	p := (&TextExtractor{Now: fixedNow}).Analyze(text, SourceText)

	assert.Equal(t, domain.GenderMale, *p.Gender)
	assert.Equal(t, 1966, *p.BirthYear)
	assert.Equal(t, 59, *p.CurrentAge)
	assert.True(t, decimal.RequireFromString("31.5").Equal(*p.InsuranceYears))
	assert.Equal(t, 16, *p.HeavyWorkYears)
}

func TestTextExtractor_Periods(t *testing.T) {
	text := `Περίοδοι ασφάλισης
01/01/2000 - 31/12/2000
Από 01.01.2001 έως 01.01.2003
01/01/2000 - 31/12/2000
05/05/2005 - 01/01/2005`

	p := (&TextExtractor{}).Analyze(text, SourceText)

	require.Len(t, p.Periods, 2, "duplicates and reversed spans are dropped")
	assert.Equal(t, 365, p.Periods[0].Days)
	assert.Equal(t, 730, p.Periods[1].Days)
	require.NotNil(t, p.InsuranceDays)
	assert.Equal(t, 1095, *p.InsuranceDays)
}

func TestTextExtractor_ExplicitDaysBeatPeriods(t *testing.T) {
	text := "Ημέρες ασφάλισης: 4500\n01/01/2000 - 31/12/2000"

	p := (&TextExtractor{}).Analyze(text, SourceText)

	assert.Equal(t, 4500, *p.InsuranceDays)
	assert.Len(t, p.Periods, 1)
}

func TestTextExtractor_FundKeywordFallback(t *testing.T) {
	tests := []struct {
		text string
		want domain.Fund
		ok   bool
	}{
		{"Ασφάλιση ΙΚΑ από το 1990", domain.FundIKA, true},
		{"Εγγραφή στον Ο.Α.Ε.Ε. ως ελεύθερος επαγγελματίας", domain.FundOAEE, true},
		{"e-ΕΦΚΑ βεβαίωση", domain.FundEFKA, true},
		{"ΠΟΛΙΤΙΚΑ ΚΟΜΜΑΤΑ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p := (&TextExtractor{}).Analyze(tt.text, SourceText)
			if !tt.ok {
				assert.Nil(t, p.Fund)
				return
			}
			require.NotNil(t, p.Fund)
			assert.Equal(t, tt.want, *p.Fund)
		})
	}
}

func TestTextExtractor_InventsNothing(t *testing.T) {
	for _, text := range []string{"", "   ", "Lorem ipsum dolor sit amet", "Σύνταξη και ασφάλιση"} {
		p := (&TextExtractor{}).Analyze(text, SourceText)
		assert.True(t, p.Empty(), "%q", text)
	}
}

func TestTextExtractor_Extract(t *testing.T) {
	p := (&TextExtractor{}).Extract(context.Background(), []byte("Salary: 2100.75"), "notes.txt")
	require.NotNil(t, p.Salary)
	assert.True(t, decimal.RequireFromString("2100.75").Equal(*p.Salary))
}

func TestDecodeAMKA(t *testing.T) {
	now := fixedNow()
	tests := []struct {
		in     string
		ok     bool
		birth  time.Time
		gender domain.Gender
	}{
		{"01018012345", true, time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), domain.GenderMale},
		{"01018012346", true, time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), domain.GenderFemale},
		{"29021512342", false, time.Time{}, ""},
		{"10101512342", true, time.Date(2015, 10, 10, 0, 0, 0, 0, time.UTC), domain.GenderFemale},
		{"10102612341", true, time.Date(1926, 10, 10, 0, 0, 0, 0, time.UTC), domain.GenderMale},
		{"32018012345", false, time.Time{}, ""},
		{"0101801234", false, time.Time{}, ""},
		{"0101801234x", false, time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, ok := DecodeAMKA(tt.in, now)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.birth, a.BirthDate)
			assert.Equal(t, tt.gender, a.Gender)
		})
	}
}

func TestGenderFromFirstName(t *testing.T) {
	assert.Equal(t, domain.GenderFemale, GenderFromFirstName("Μαρία"))
	assert.Equal(t, domain.GenderFemale, GenderFromFirstName("ΕΛΕΝΗ"))
	assert.Equal(t, domain.GenderFemale, GenderFromFirstName("Irini"))
	assert.Equal(t, domain.GenderFemale, GenderFromFirstName("Άννα-Σοφία"))
	assert.Equal(t, domain.GenderMale, GenderFromFirstName("Ευάγγελος"))
	assert.Equal(t, domain.GenderMale, GenderFromFirstName("Γιώργος"))
}
