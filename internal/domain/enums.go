package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Gender of the insured person. Only affects the retirement-age cohort rule.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Fund identifies the social-insurance fund whose replacement-rate table applies.
type Fund string

const (
	FundIKA   Fund = "ika"
	FundEFKA  Fund = "efka"
	FundOAEE  Fund = "oaee"
	FundETAA  Fund = "etaa"
	FundOther Fund = "other"
	FundTEBE  Fund = "tebe" // legacy, rated on the ika/efka table
)

var genderAliases = foldKeys(map[string]Gender{
	"male":    GenderMale,
	"m":       GenderMale,
	"man":     GenderMale,
	"ανδρας":  GenderMale,
	"αρρεν":   GenderMale,
	"α":       GenderMale,
	"female":  GenderFemale,
	"f":       GenderFemale,
	"woman":   GenderFemale,
	"γυναικα": GenderFemale,
	"θηλυ":    GenderFemale,
	"γ":       GenderFemale,
})

func foldKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[Fold(k)] = v
	}
	return out
}

// ParseGender maps English and Greek spellings onto a Gender.
func ParseGender(s string) (Gender, bool) {
	g, ok := genderAliases[Fold(s)]
	return g, ok
}

var fundAliases = foldKeys(map[string]Fund{
	"ika":   FundIKA,
	"ικα":   FundIKA,
	"efka":  FundEFKA,
	"εφκα":  FundEFKA,
	"oaee":  FundOAEE,
	"οαεε":  FundOAEE,
	"etaa":  FundETAA,
	"εταα":  FundETAA,
	"tebe":  FundTEBE,
	"τεβε":  FundTEBE,
	"other": FundOther,
	"αλλο":  FundOther,
})

// LookupFund maps a fund code onto a canonical Fund. Dots and spaces are
// ignored so "Ι.Κ.Α." resolves like "ika".
func LookupFund(code string) (Fund, bool) {
	key := strings.NewReplacer(".", "", " ", "").Replace(Fold(code))
	f, ok := fundAliases[key]
	return f, ok
}

// ParseFund is LookupFund with the ika fallback for unknown codes.
func ParseFund(code string) Fund {
	if f, ok := LookupFund(code); ok {
		return f
	}
	return FundIKA
}

// Fold lower-cases s, trims it and strips combining marks, so Greek words
// compare equal with or without tonos. Final sigma becomes σ so text that
// went through upper case folds the same way.
func Fold(s string) string {
	return strings.ReplaceAll(strings.ToLower(StripMarks(strings.TrimSpace(s))), "ς", "σ")
}

// StripMarks removes combining marks (tonos, dialytika) from s.
func StripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
