// Package date provides the holiday calendar engine: calendar lookup and
// combination, business day adjustment and date shifting.
package date

import (
	"time"
)

// NoHolidaysName identifies the calendar with no holidays at all.
const NoHolidaysName = "NoHolidays"

// Calendar decides whether a date is a holiday for one or more business
// centers. Implementations are immutable and safe for concurrent use.
type Calendar interface {
	Name() string
	IsHoliday(date time.Time) bool
}

// NoHolidays is the calendar where every day is a good business day.
// It is the identity element of Combine.
var NoHolidays Calendar = noHolidays{}

type noHolidays struct{}

func (noHolidays) Name() string                 { return NoHolidaysName }
func (noHolidays) IsHoliday(date time.Time) bool { return false }

// weekendCalendar treats Saturday and Sunday as the only holidays. Built-in
// business center calendars use this; real holiday data loads via Register.
type weekendCalendar struct {
	name string
}

func (c weekendCalendar) Name() string { return c.name }

func (c weekendCalendar) IsHoliday(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// holidayCalendar combines an explicit holiday set with weekend holidays.
type holidayCalendar struct {
	name     string
	holidays map[time.Time]bool
}

// NewCalendar builds a calendar from an explicit list of holiday dates.
// Saturdays and Sundays are holidays as well.
func NewCalendar(name string, holidays ...time.Time) Calendar {
	set := make(map[time.Time]bool, len(holidays))
	for _, h := range holidays {
		set[midnightUTC(h)] = true
	}
	return holidayCalendar{name: name, holidays: set}
}

func (c holidayCalendar) Name() string { return c.name }

func (c holidayCalendar) IsHoliday(date time.Time) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return true
	}
	return c.holidays[midnightUTC(date)]
}

// linkedCalendar is the combination of two calendars. A date is a holiday
// only if both constituents declare it a holiday.
type linkedCalendar struct {
	first  Calendar
	second Calendar
}

func (c linkedCalendar) Name() string {
	return c.first.Name() + "+" + c.second.Name()
}

func (c linkedCalendar) IsHoliday(date time.Time) bool {
	return c.first.IsHoliday(date) && c.second.IsHoliday(date)
}

// Combine links two calendars. Combining with NoHolidays returns the other
// operand unchanged. The holiday predicate of the result does not depend on
// operand order; the display name does.
func Combine(a, b Calendar) Calendar {
	if a.Name() == NoHolidaysName {
		return b
	}
	if b.Name() == NoHolidaysName {
		return a
	}
	return linkedCalendar{first: a, second: b}
}

// Shift moves the date by the given number of good business days, skipping
// holidays. A positive count moves forward, a negative count backward.
// A zero count returns the date itself when it is a good business day, and
// rolls forward to the next good business day otherwise.
func Shift(cal Calendar, date time.Time, businessDays int) time.Time {
	d := date
	switch {
	case businessDays > 0:
		for i := 0; i < businessDays; i++ {
			d = next(cal, d)
		}
	case businessDays < 0:
		for i := 0; i > businessDays; i-- {
			d = previous(cal, d)
		}
	default:
		for cal.IsHoliday(d) {
			d = d.AddDate(0, 0, 1)
		}
	}
	return d
}

// next returns the first good business day strictly after the date.
func next(cal Calendar, date time.Time) time.Time {
	d := date.AddDate(0, 0, 1)
	for cal.IsHoliday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// previous returns the first good business day strictly before the date.
func previous(cal Calendar, date time.Time) time.Time {
	d := date.AddDate(0, 0, -1)
	for cal.IsHoliday(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
