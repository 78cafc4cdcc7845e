package models

import "fmt"

// StubConvention positions the irregular period of a schedule.
type StubConvention string

const (
	StubShortInitial StubConvention = "ShortInitial"
	StubShortFinal   StubConvention = "ShortFinal"
	StubLongInitial  StubConvention = "LongInitial"
	StubLongFinal    StubConvention = "LongFinal"
	StubNone         StubConvention = ""
)

// PaymentRelativeTo anchors payment dates to period start or end.
type PaymentRelativeTo string

const (
	PaymentPeriodStart PaymentRelativeTo = "PeriodStart"
	PaymentPeriodEnd   PaymentRelativeTo = "PeriodEnd"
)

// FixingRelativeTo anchors fixing dates to period start or end.
type FixingRelativeTo string

const (
	FixingPeriodStart FixingRelativeTo = "PeriodStart"
	FixingPeriodEnd   FixingRelativeTo = "PeriodEnd"
)

// NegativeRateMethod defines the treatment of negative rates.
type NegativeRateMethod string

const (
	AllowNegativeRates NegativeRateMethod = "AllowNegative"
	NotNegativeRates   NegativeRateMethod = "NotNegative"
)

// AveragingMethod defines how reset rates within a period average.
type AveragingMethod string

const (
	AveragingUnweighted AveragingMethod = "Unweighted"
	AveragingWeighted   AveragingMethod = "Weighted"
	AveragingNone       AveragingMethod = ""
)

// OvernightAccrualMethod defines how overnight rates accrue over a period.
type OvernightAccrualMethod string

const (
	AccrualCompounded OvernightAccrualMethod = "Compounded"
	AccrualAveraged   OvernightAccrualMethod = "Averaged"
)

// CompoundingMethod defines how sub-period amounts compound into a payment.
type CompoundingMethod string

const (
	CompoundingNone            CompoundingMethod = "None"
	CompoundingFlat            CompoundingMethod = "Flat"
	CompoundingStraight        CompoundingMethod = "Straight"
	CompoundingSpreadExclusive CompoundingMethod = "SpreadExclusive"
)

// CompoundingMethodOf converts an FpML compoundingMethod value.
func CompoundingMethodOf(name string) (CompoundingMethod, error) {
	switch name {
	case "None":
		return CompoundingNone, nil
	case "Flat":
		return CompoundingFlat, nil
	case "Straight":
		return CompoundingStraight, nil
	case "SpreadExclusive":
		return CompoundingSpreadExclusive, nil
	default:
		return "", fmt.Errorf("unknown compounding method '%s'", name)
	}
}

// FraDiscountingMethod defines how a FRA settlement amount discounts.
type FraDiscountingMethod string

const (
	FraDiscountingISDA FraDiscountingMethod = "ISDA"
	FraDiscountingAFMA FraDiscountingMethod = "AFMA"
	FraDiscountingNone FraDiscountingMethod = "NONE"
)

// FraDiscountingMethodOf converts an FpML fraDiscounting value.
func FraDiscountingMethodOf(name string) (FraDiscountingMethod, error) {
	switch name {
	case "ISDA":
		return FraDiscountingISDA, nil
	case "AFMA":
		return FraDiscountingAFMA, nil
	case "NONE":
		return FraDiscountingNone, nil
	default:
		return "", fmt.Errorf("unknown FRA discounting method '%s'", name)
	}
}
