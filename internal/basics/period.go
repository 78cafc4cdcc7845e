package basics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a date-based amount of years, months and days.
// Weeks are normalized to days on parsing.
type Period struct {
	Years  int
	Months int
	Days   int
}

// ParsePeriod converts an FpML periodMultiplier/period pair into a Period.
// Recognized units are D, W, M and Y.
func ParsePeriod(multiplier, unit string) (Period, error) {
	n, err := strconv.Atoi(multiplier)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period multiplier '%s': %w", multiplier, err)
	}
	switch unit {
	case "D":
		return Period{Days: n}, nil
	case "W":
		return Period{Days: n * 7}, nil
	case "M":
		return Period{Months: n}, nil
	case "Y":
		return Period{Years: n}, nil
	default:
		return Period{}, fmt.Errorf("unknown period unit '%s'", unit)
	}
}

func (p Period) IsZero() bool {
	return p.Years == 0 && p.Months == 0 && p.Days == 0
}

// TotalMonths returns the month-based part of the period in months.
func (p Period) TotalMonths() int {
	return p.Years*12 + p.Months
}

// AddTo adds the period to a date. Month and year arithmetic clamps to the
// last day of the resulting month (31 Jan + 1M = 28/29 Feb), matching the
// behavior of java.time rather than time.AddDate normalization.
func (p Period) AddTo(date time.Time) time.Time {
	d := date
	if m := p.TotalMonths(); m != 0 {
		d = addMonthsClamped(d, m)
	}
	if p.Days != 0 {
		d = d.AddDate(0, 0, p.Days)
	}
	return d
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + months
	year += total / 12
	rem := total % 12
	if rem < 0 {
		rem += 12
		year--
	}
	newMonth := time.Month(rem + 1)
	if last := lastDayOfMonth(year, newMonth); day > last {
		day = last
	}
	return time.Date(year, newMonth, day, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (p Period) String() string {
	if p.IsZero() {
		return "0D"
	}
	var b strings.Builder
	if p.Years != 0 {
		fmt.Fprintf(&b, "%dY", p.Years)
	}
	if p.Months != 0 {
		fmt.Fprintf(&b, "%dM", p.Months)
	}
	if p.Days != 0 {
		fmt.Fprintf(&b, "%dD", p.Days)
	}
	return b.String()
}
