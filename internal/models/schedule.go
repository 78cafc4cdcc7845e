package models

import (
	"time"

	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/date"
)

// PeriodicSchedule defines the accrual periods of a swap leg.
type PeriodicSchedule struct {
	StartDate time.Time
	EndDate   time.Time
	Frequency basics.Frequency
	// Adjustment applies to all period boundary dates.
	Adjustment date.BusinessDayAdjustment
	// StartDateAdjustment and EndDateAdjustment override Adjustment for the
	// initial and final dates when the document specifies a different one.
	StartDateAdjustment   *date.BusinessDayAdjustment
	EndDateAdjustment     *date.BusinessDayAdjustment
	FirstRegularStartDate *time.Time
	LastRegularEndDate    *time.Time
	StubConvention        StubConvention
	RollConvention        basics.RollConvention
}

// PaymentSchedule defines when swap leg payments occur.
type PaymentSchedule struct {
	PaymentFrequency  basics.Frequency
	PaymentRelativeTo PaymentRelativeTo
	PaymentDateOffset date.DaysAdjustment
	CompoundingMethod CompoundingMethod
}

// NotionalSchedule defines the notional amount of a swap leg over time.
type NotionalSchedule struct {
	Currency             basics.Currency
	Amount               ValueSchedule
	InitialExchange      bool
	IntermediateExchange bool
	FinalExchange        bool
}

// ResetSchedule defines reset dates within an accrual period, used when the
// reset frequency differs from the accrual frequency.
type ResetSchedule struct {
	ResetFrequency  basics.Frequency
	AveragingMethod AveragingMethod
	Adjustment      date.BusinessDayAdjustment
}
