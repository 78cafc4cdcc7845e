package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValueStep replaces the schedule value from a given date onward.
type ValueStep struct {
	Date  time.Time
	Value decimal.Decimal
}

// ValueSchedule is an initial value plus date-keyed replacement steps, used
// for notionals, fixed rates, spreads and gearings.
type ValueSchedule struct {
	InitialValue decimal.Decimal
	Steps        []ValueStep
}

// ConstantValue builds a schedule with a single unchanging value.
func ConstantValue(value decimal.Decimal) ValueSchedule {
	return ValueSchedule{InitialValue: value}
}
