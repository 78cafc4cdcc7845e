package date

import "time"

// BusinessDayConvention is the rule used to move a date that falls on a
// holiday to a good business day.
type BusinessDayConvention string

const (
	// NoAdjust leaves the date alone even when it is a holiday.
	NoAdjust BusinessDayConvention = "NoAdjust"
	// Following moves to the next good business day.
	Following BusinessDayConvention = "Following"
	// ModifiedFollowing moves to the next good business day unless that
	// crosses a month boundary, in which case it moves to the preceding one.
	ModifiedFollowing BusinessDayConvention = "ModifiedFollowing"
	// Preceding moves to the previous good business day.
	Preceding BusinessDayConvention = "Preceding"
	// Nearest moves Sunday and Monday holidays forward and all other
	// holidays backward.
	Nearest BusinessDayConvention = "Nearest"
)

// Adjust applies the convention so the result is a good business day under
// the calendar, except for NoAdjust which never moves the date.
func (c BusinessDayConvention) Adjust(cal Calendar, date time.Time) time.Time {
	if c == NoAdjust || !cal.IsHoliday(date) {
		return date
	}
	switch c {
	case Following:
		return next(cal, date)
	case ModifiedFollowing:
		adjusted := next(cal, date)
		if adjusted.Month() != date.Month() {
			return previous(cal, date)
		}
		return adjusted
	case Preceding:
		return previous(cal, date)
	case Nearest:
		if wd := date.Weekday(); wd == time.Sunday || wd == time.Monday {
			return next(cal, date)
		}
		return previous(cal, date)
	default:
		return date
	}
}
