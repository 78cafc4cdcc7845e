package basics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		multiplier string
		unit       string
		expected   Period
	}{
		{"2", "D", Period{Days: 2}},
		{"-2", "D", Period{Days: -2}},
		{"1", "W", Period{Days: 7}},
		{"3", "M", Period{Months: 3}},
		{"10", "Y", Period{Years: 10}},
		{"0", "D", Period{}},
	}
	for _, tt := range tests {
		t.Run(tt.multiplier+tt.unit, func(t *testing.T) {
			p, err := ParsePeriod(tt.multiplier, tt.unit)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}

	t.Run("Expect: error on unknown unit", func(t *testing.T) {
		_, err := ParsePeriod("1", "Q")
		assert.Error(t, err)
	})

	t.Run("Expect: error on non-numeric multiplier", func(t *testing.T) {
		_, err := ParsePeriod("one", "M")
		assert.Error(t, err)
	})
}

func TestPeriod_TotalMonths(t *testing.T) {
	assert.Equal(t, 0, Period{Days: 5}.TotalMonths())
	assert.Equal(t, 3, Period{Months: 3}.TotalMonths())
	assert.Equal(t, 27, Period{Years: 2, Months: 3}.TotalMonths())
}

func TestPeriod_AddTo(t *testing.T) {
	tests := []struct {
		name     string
		period   Period
		start    time.Time
		expected time.Time
	}{
		{"add days", Period{Days: 10}, date(2014, time.January, 15), date(2014, time.January, 25)},
		{"subtract days", Period{Days: -2}, date(2014, time.January, 15), date(2014, time.January, 13)},
		{"add months", Period{Months: 3}, date(2014, time.January, 15), date(2014, time.April, 15)},
		{"month end clamps", Period{Months: 1}, date(2014, time.January, 31), date(2014, time.February, 28)},
		{"month end clamps in leap year", Period{Months: 1}, date(2016, time.January, 31), date(2016, time.February, 29)},
		{"months across year end", Period{Months: 2}, date(2014, time.December, 15), date(2015, time.February, 15)},
		{"negative months across year start", Period{Months: -2}, date(2014, time.January, 15), date(2013, time.November, 15)},
		{"add years", Period{Years: 2}, date(2014, time.June, 30), date(2016, time.June, 30)},
		{"leap day clamps on year add", Period{Years: 1}, date(2016, time.February, 29), date(2017, time.February, 28)},
		{"months then days", Period{Months: 1, Days: 3}, date(2014, time.January, 31), date(2014, time.March, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.period.AddTo(tt.start))
		})
	}
}

func TestPeriod_String(t *testing.T) {
	assert.Equal(t, "0D", Period{}.String())
	assert.Equal(t, "3M", Period{Months: 3}.String())
	assert.Equal(t, "-2D", Period{Days: -2}.String())
	assert.Equal(t, "1Y6M", Period{Years: 1, Months: 6}.String())
}

func TestParseFrequency(t *testing.T) {
	t.Run("Expect: T to yield the term frequency", func(t *testing.T) {
		freq, err := ParseFrequency("1", "T")
		assert.NoError(t, err)
		assert.True(t, freq.Term)
		assert.Equal(t, "Term", freq.String())
	})

	t.Run("Expect: periodic units to carry the period", func(t *testing.T) {
		freq, err := ParseFrequency("6", "M")
		assert.NoError(t, err)
		assert.False(t, freq.Term)
		assert.Equal(t, Period{Months: 6}, freq.Period)
		assert.Equal(t, "6M", freq.String())
	})

	t.Run("Expect: error on unknown unit", func(t *testing.T) {
		_, err := ParseFrequency("1", "X")
		assert.Error(t, err)
	})
}
