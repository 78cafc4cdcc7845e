package fpml

import (
	"time"

	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/date"
)

// Day count conversions. 'BUS/252' is not included.
var dayCounts = map[string]basics.DayCount{
	"1/1":           basics.DayCountOneOne,
	"30/360":        basics.DayCountThirty360ISDA,
	"30E/360":       basics.DayCountThirtyE360,
	"30E/360.ISDA":  basics.DayCountThirtyE360ISDA,
	"ACT/360":       basics.DayCountAct360,
	"ACT/365":       basics.DayCountAct365Fixed,
	"ACT/365.FIXED": basics.DayCountAct365Fixed,
	"ACT/365L":      basics.DayCountAct365L,
	"ACT/ACT.AFB":   basics.DayCountActActAFB,
	"ACT/ACT.ICMA":  basics.DayCountActActICMA,
	"ACT/ACT.ISMA":  basics.DayCountActActICMA,
	"ACT/ACT.ISDA":  basics.DayCountActActISDA,
	"ACT/365.ISDA":  basics.DayCountActActISDA,
}

var businessDayConventions = map[string]date.BusinessDayConvention{
	"NONE":         date.NoAdjust,
	"FOLLOWING":    date.Following,
	"MODFOLLOWING": date.ModifiedFollowing,
	"PRECEDING":    date.Preceding,
	"NEAREST":      date.Nearest,
}

// convertDayCount converts an FpML day count fraction name.
func convertDayCount(name string) (basics.DayCount, error) {
	dc, ok := dayCounts[name]
	if !ok {
		return "", parseErrorf("unknown day count '%s'", name)
	}
	return dc, nil
}

// convertBusinessDayConvention converts an FpML business day convention name.
func convertBusinessDayConvention(name string) (date.BusinessDayConvention, error) {
	bdc, ok := businessDayConventions[name]
	if !ok {
		return "", parseErrorf("unknown business day convention '%s'", name)
	}
	return bdc, nil
}

// convertDate parses an FpML date, tolerating a trailing zone offset, and
// normalizes it to UTC midnight.
func convertDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse("2006-01-02Z07:00", s)
	}
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
