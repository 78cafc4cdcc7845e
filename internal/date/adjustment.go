package date

import (
	"time"
)

// BusinessDayAdjustment pairs a convention with the calendar it adjusts
// against.
type BusinessDayAdjustment struct {
	Convention BusinessDayConvention
	Calendar   Calendar
}

// NoAdjustment leaves any date unchanged.
var NoAdjustment = BusinessDayAdjustment{Convention: NoAdjust, Calendar: NoHolidays}

// Adjust applies the convention under the calendar.
func (a BusinessDayAdjustment) Adjust(date time.Time) time.Time {
	return a.Convention.Adjust(a.Calendar, date)
}

// Equal compares two adjustments by convention and calendar identity.
// Calendars may hold holiday sets, so == is not usable here.
func (a BusinessDayAdjustment) Equal(other BusinessDayAdjustment) bool {
	return a.Convention == other.Convention && a.Calendar.Name() == other.Calendar.Name()
}

// AdjustableDate is an unadjusted date plus the adjustment that produces the
// final date.
type AdjustableDate struct {
	Unadjusted time.Time
	Adjustment BusinessDayAdjustment
}

// Adjusted resolves the final date.
func (d AdjustableDate) Adjusted() time.Time {
	return d.Adjustment.Adjust(d.Unadjusted)
}

// DaysAdjustment is a day-based offset from some base date. The offset is
// counted in business days under Calendar, or in calendar days when Calendar
// is NoHolidays; Adjustment then adjusts the shifted date.
type DaysAdjustment struct {
	Days       int
	Calendar   Calendar
	Adjustment BusinessDayAdjustment
}

// CalendarDays builds an offset counted in calendar days.
func CalendarDays(days int, adjustment BusinessDayAdjustment) DaysAdjustment {
	return DaysAdjustment{Days: days, Calendar: NoHolidays, Adjustment: adjustment}
}

// BusinessDays builds an offset counted in good business days of the
// calendar. The result of a business day shift needs no further adjustment.
func BusinessDays(days int, cal Calendar) DaysAdjustment {
	return DaysAdjustment{Days: days, Calendar: cal, Adjustment: NoAdjustment}
}

// Apply resolves the offset against a base date.
func (a DaysAdjustment) Apply(base time.Time) time.Time {
	var shifted time.Time
	if a.Calendar.Name() == NoHolidaysName {
		shifted = base.AddDate(0, 0, a.Days)
	} else {
		shifted = Shift(a.Calendar, base, a.Days)
	}
	return a.Adjustment.Adjust(shifted)
}
