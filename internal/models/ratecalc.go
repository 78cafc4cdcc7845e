package models

import (
	"github.com/shopspring/decimal"

	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/date"
	"github.com/quantfield/fpml-trades/internal/index"
)

// RateCalculation is the closed set of ways a swap leg accrues interest:
// fixed, ibor or overnight. The decoder must handle every kind and reject
// anything else.
type RateCalculation interface {
	isRateCalculation()
}

// FixedRateCalculation accrues at a scheduled fixed rate.
type FixedRateCalculation struct {
	DayCount basics.DayCount
	Rate     ValueSchedule
}

func (FixedRateCalculation) isRateCalculation() {}

// IborRateCalculation accrues at an ibor index fixing.
type IborRateCalculation struct {
	DayCount         basics.DayCount
	Index            index.IborIndex
	ResetPeriods     *ResetSchedule
	FixingRelativeTo FixingRelativeTo
	FixingDateOffset date.DaysAdjustment
	NegativeRate     NegativeRateMethod
	Gearing          *ValueSchedule
	Spread           *ValueSchedule
	FirstRegularRate *decimal.Decimal
	InitialStub      *StubCalculation
	FinalStub        *StubCalculation
}

func (IborRateCalculation) isRateCalculation() {}

// OvernightRateCalculation accrues by compounding or averaging an overnight
// index over each period.
type OvernightRateCalculation struct {
	DayCount       basics.DayCount
	Index          index.OvernightIndex
	AccrualMethod  OvernightAccrualMethod
	NegativeRate   NegativeRateMethod
	Gearing        *ValueSchedule
	Spread         *ValueSchedule
	RateCutOffDays int
}

func (OvernightRateCalculation) isRateCalculation() {}

// StubCalculation defines the rate of an initial or final stub period:
// an explicit fixed rate, a single ibor index, or an interpolated pair.
type StubCalculation struct {
	FixedRate         *decimal.Decimal
	Index             *index.IborIndex
	IndexInterpolated *index.IborIndex
}

// FixedRateStub builds a stub bearing an explicit rate.
func FixedRateStub(rate decimal.Decimal) StubCalculation {
	return StubCalculation{FixedRate: &rate}
}

// IborStub builds a stub bearing a single index rate.
func IborStub(idx index.IborIndex) StubCalculation {
	return StubCalculation{Index: &idx}
}

// InterpolatedStub builds a stub interpolating between two index rates.
func InterpolatedStub(idx, interpolated index.IborIndex) StubCalculation {
	return StubCalculation{Index: &idx, IndexInterpolated: &interpolated}
}
