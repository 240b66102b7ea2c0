package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate_Formats(t *testing.T) {
	want := time.Date(1980, 3, 7, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"1980-03-07",
		"07/03/1980",
		"07-03-1980",
		"1980/03/07",
		"07.03.1980",
		"1980.03.07",
		"7/3/1980",
		" 07 03 1980 ",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, ok := ParseDate(in)
			assert.True(t, ok)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDate_Embedded(t *testing.T) {
	got, ok := ParseDate("born on 15/06/1972 in Athens")
	assert.True(t, ok)
	assert.Equal(t, time.Date(1972, 6, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "31/02/2001", "2001-13-01"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, in)
	}
}

func TestAge(t *testing.T) {
	birth := time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 44, Age(birth, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 45, Age(birth, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 366, DaysBetween(a, b))
	assert.Equal(t, 0, DaysBetween(b, a))
}
