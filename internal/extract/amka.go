package extract

import (
	"strconv"
	"time"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/pkg/dateutil"
)

// AMKA is a decoded social-security number. The first six digits are the
// holder's birth date as DDMMYY; the last digit is odd for men.
type AMKA struct {
	Number    string
	BirthDate time.Time
	Gender    domain.Gender
}

// DecodeAMKA decodes an 11-digit AMKA. A two-digit year above the current
// two-digit year belongs to the 1900s, otherwise to the 2000s.
func DecodeAMKA(number string, now time.Time) (AMKA, bool) {
	if len(number) != 11 {
		return AMKA{}, false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return AMKA{}, false
		}
	}
	day, _ := strconv.Atoi(number[0:2])
	month, _ := strconv.Atoi(number[2:4])
	yy, _ := strconv.Atoi(number[4:6])

	year := 2000 + yy
	if yy > now.Year()%100 {
		year = 1900 + yy
	}
	birth, ok := dateutil.Date(year, month, day)
	if !ok {
		return AMKA{}, false
	}

	gender := domain.GenderFemale
	if (number[10]-'0')%2 == 1 {
		gender = domain.GenderMale
	}
	return AMKA{Number: number, BirthDate: birth, Gender: gender}, true
}

// applyAMKA fills birth date, birth year and gender from the AMKA, but only
// where nothing more explicit was found.
func applyAMKA(p *domain.PartialFacts, number string, now time.Time) {
	p.AMKA = number
	a, ok := DecodeAMKA(number, now)
	if !ok {
		p.Note("AMKA " + number + " does not encode a valid birth date")
		return
	}
	if p.BirthDate == nil && p.BirthYear == nil {
		p.BirthDate = ptr(a.BirthDate)
		p.BirthYear = ptr(a.BirthDate.Year())
	}
	if p.Gender == nil {
		p.Gender = ptr(a.Gender)
	}
}
