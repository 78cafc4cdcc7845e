// Package models holds the typed trade model produced by FpML decoding.
// Every value is built once during parsing and never mutated.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/date"
	"github.com/quantfield/fpml-trades/internal/index"
)

// Identifier is a scheme-qualified identifier, such as a trade id or a
// counterparty id.
type Identifier struct {
	Scheme string
	Value  string
}

func (id Identifier) IsZero() bool {
	return id == Identifier{}
}

func (id Identifier) String() string {
	return id.Scheme + "~" + id.Value
}

// TradeInfo carries the non-product information of a trade.
type TradeInfo struct {
	TradeDate    time.Time
	ID           Identifier
	Counterparty Identifier
}

// Trade is the closed set of products the decoder produces: FRA or swap.
type Trade interface {
	Info() TradeInfo
	ProductKind() string
}

// Fra is a forward rate agreement.
type Fra struct {
	BuySell          basics.BuySell
	Currency         basics.Currency
	Notional         decimal.Decimal
	StartDate        time.Time
	EndDate          time.Time
	PaymentDate      date.AdjustableDate
	FixingDateOffset date.DaysAdjustment
	DayCount         basics.DayCount
	FixedRate        decimal.Decimal
	Index            index.IborIndex
	// IndexInterpolated is set when the FRA period interpolates between two
	// index tenors.
	IndexInterpolated *index.IborIndex
	Discounting       FraDiscountingMethod
}

// FraTrade pairs a FRA product with its trade information.
type FraTrade struct {
	TradeInfo TradeInfo
	Product   Fra
}

func (t FraTrade) Info() TradeInfo     { return t.TradeInfo }
func (t FraTrade) ProductKind() string { return "fra" }

// SwapLeg is one stream of a swap.
type SwapLeg struct {
	PayReceive       basics.PayReceive
	AccrualSchedule  PeriodicSchedule
	PaymentSchedule  PaymentSchedule
	NotionalSchedule NotionalSchedule
	Calculation      RateCalculation
}

// Swap is an interest rate swap product.
type Swap struct {
	Legs []SwapLeg
}

// SwapTrade pairs a swap product with its trade information.
type SwapTrade struct {
	TradeInfo TradeInfo
	Product   Swap
}

func (t SwapTrade) Info() TradeInfo     { return t.TradeInfo }
func (t SwapTrade) ProductKind() string { return "swap" }
