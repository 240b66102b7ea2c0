package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rgehrsitz/grpension/internal/domain"
)

// feminineNames are compared whole-token against folded first names, so
// "Εύα" matches but "Ευάγγελος" does not.
var feminineNames = map[string]struct{}{
	"μαρια":       {},
	"αννα":        {},
	"ελενη":       {},
	"ευα":         {},
	"σοφια":       {},
	"κωνσταντινα": {},
	"αικατερινη":  {},
	"βασιλικη":    {},
	"δαφνη":       {},
	"χρυσα":       {},
	"irini":       {},
	"dimitra":     {},
}

// GenderFromFirstName returns female when any token of the name is a known
// feminine given name, and male otherwise.
func GenderFromFirstName(name string) domain.Gender {
	tokens := strings.FieldsFunc(domain.Fold(name), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, tok := range tokens {
		if _, ok := feminineNames[tok]; ok {
			return domain.GenderFemale
		}
	}
	return domain.GenderMale
}

// fundKeywords are searched, in order, in documents that carry no labelled
// fund field. Text is expected upper-case with marks stripped.
var fundKeywords = []struct {
	re   *regexp.Regexp
	fund domain.Fund
}{
	{keyword(`Ι\.?Κ\.?Α\.?`, `IKA`), domain.FundIKA},
	{keyword(`Ο\.?Α\.?Ε\.?Ε\.?`, `ΕΛΕΥΘΕΡΟΣ ΕΠΑΓΓΕΛΜΑΤΙΑΣ`, `OAEE`), domain.FundOAEE},
	{keyword(`Ε\.?Φ\.?Κ\.?Α\.?`, `EFKA`), domain.FundEFKA},
	{keyword(`Ε\.?Τ\.?Α\.?Α\.?`, `ETAA`), domain.FundETAA},
	{keyword(`Τ\.?Ε\.?Β\.?Ε\.?`, `TEBE`), domain.FundTEBE},
}

// keyword compiles alternatives that must stand as whole words. RE2 has no
// Unicode \b, so letters are checked explicitly on both sides.
func keyword(alts ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}])(?:` + strings.Join(alts, "|") + `)(?:[^\p{L}]|$)`)
}

func detectFund(upper string) (domain.Fund, bool) {
	for _, k := range fundKeywords {
		if k.re.MatchString(upper) {
			return k.fund, true
		}
	}
	return "", false
}
