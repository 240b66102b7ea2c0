package dateutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. Single-digit verbs also accept zero-padded input.
var dateLayouts = []string{
	"2006-1-2",   // YYYY-MM-DD
	"2/1/2006",   // DD/MM/YYYY
	"2-1-2006",   // DD-MM-YYYY
	"2006/1/2",   // YYYY/MM/DD
	"2.1.2006",   // DD.MM.YYYY
	"2006.1.2",   // YYYY.MM.DD
	"2 1 2006",   // DD MM YYYY
	"2006 1 2",   // YYYY MM DD
	time.RFC3339, // machine exports
}

var (
	yearFirstRe = regexp.MustCompile(`(\d{4})[-./](\d{1,2})[-./](\d{1,2})`)
	dayFirstRe  = regexp.MustCompile(`(\d{1,2})[-./](\d{1,2})[-./](\d{4})`)
)

// ParseDate parses the date formats found in Greek insurance records. When no
// layout matches the whole string, a date embedded in surrounding text is
// accepted. Results are UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	if m := yearFirstRe.FindStringSubmatch(s); m != nil {
		return build(m[1], m[2], m[3])
	}
	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		return build(m[3], m[2], m[1])
	}
	return time.Time{}, false
}

// Date builds a UTC date and reports whether the components were a real calendar day.
func Date(year, month, day int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func build(y, m, d string) (time.Time, bool) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)
	return Date(year, month, day)
}

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// DaysBetween returns the whole days from start to end, never negative.
func DaysBetween(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
