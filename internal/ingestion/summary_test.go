package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/date"
	"github.com/quantfield/fpml-trades/internal/index"
	"github.com/quantfield/fpml-trades/internal/models"
)

func fixtureFraTrade() models.FraTrade {
	return models.FraTrade{
		TradeInfo: models.TradeInfo{
			TradeDate:    time.Date(2011, time.May, 10, 0, 0, 0, 0, time.UTC),
			ID:           models.Identifier{Scheme: "FpML-tradeId", Value: "FRA-2011-0042"},
			Counterparty: models.Identifier{Scheme: "FpML-partyId", Value: "OTHER-BANK"},
		},
		Product: models.Fra{
			BuySell:   basics.Buy,
			Currency:  "GBP",
			Notional:  decimal.NewFromInt(15000000),
			StartDate: time.Date(2011, time.July, 12, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2011, time.October, 12, 0, 0, 0, 0, time.UTC),
			PaymentDate: date.AdjustableDate{
				Unadjusted: time.Date(2011, time.July, 12, 0, 0, 0, 0, time.UTC),
				Adjustment: date.NoAdjustment,
			},
			DayCount:    basics.DayCountAct360,
			FixedRate:   decimal.RequireFromString("0.01"),
			Index:       index.IborIndex{Name: "GBP-LIBOR-3M", Tenor: basics.Period{Months: 3}},
			Discounting: models.FraDiscountingISDA,
		},
	}
}

func fixtureSwapTrade() models.SwapTrade {
	return models.SwapTrade{
		TradeInfo: models.TradeInfo{
			TradeDate:    time.Date(2011, time.February, 4, 0, 0, 0, 0, time.UTC),
			ID:           models.Identifier{Scheme: "FpML-tradeId", Value: "IRS-2011-0007"},
			Counterparty: models.Identifier{Scheme: "FpML-partyId", Value: "OTHER-BANK"},
		},
		Product: models.Swap{
			Legs: []models.SwapLeg{
				{
					PayReceive: basics.Pay,
					AccrualSchedule: models.PeriodicSchedule{
						StartDate: time.Date(2011, time.February, 8, 0, 0, 0, 0, time.UTC),
						EndDate:   time.Date(2016, time.February, 8, 0, 0, 0, 0, time.UTC),
						Frequency: basics.Frequency{Period: basics.Period{Months: 6}},
					},
					PaymentSchedule: models.PaymentSchedule{
						PaymentFrequency: basics.Frequency{Period: basics.Period{Months: 6}},
					},
					NotionalSchedule: models.NotionalSchedule{
						Currency: "GBP",
						Amount:   models.ConstantValue(decimal.NewFromInt(50000000)),
					},
					Calculation: models.FixedRateCalculation{
						DayCount: basics.DayCountThirtyE360,
						Rate:     models.ConstantValue(decimal.RequireFromString("0.051")),
					},
				},
				{
					PayReceive: basics.Receive,
					AccrualSchedule: models.PeriodicSchedule{
						StartDate: time.Date(2011, time.February, 8, 0, 0, 0, 0, time.UTC),
						EndDate:   time.Date(2016, time.February, 8, 0, 0, 0, 0, time.UTC),
						Frequency: basics.Frequency{Period: basics.Period{Months: 3}},
					},
					PaymentSchedule: models.PaymentSchedule{
						PaymentFrequency: basics.Frequency{Period: basics.Period{Months: 3}},
					},
					NotionalSchedule: models.NotionalSchedule{
						Currency: "GBP",
						Amount:   models.ConstantValue(decimal.NewFromInt(50000000)),
					},
					Calculation: models.IborRateCalculation{
						DayCount: basics.DayCountAct360,
						Index:    index.IborIndex{Name: "GBP-LIBOR-3M", Tenor: basics.Period{Months: 3}},
					},
				},
			},
		},
	}
}

func TestTradeRecords_Fra(t *testing.T) {
	records, err := tradeRecords(7, []models.Trade{fixtureFraTrade()})
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, 7, record.DocumentID)
	assert.Equal(t, "FRA-2011-0042", record.TradeID)
	assert.Equal(t, "FpML-tradeId", record.TradeScheme)
	assert.Equal(t, "FpML-partyId~OTHER-BANK", record.Counterparty)
	assert.Equal(t, "fra", record.Product)
	assert.NotEmpty(t, record.Checksum)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(record.Payload, &payload))
	assert.Equal(t, "BUY", payload["buy_sell"])
	assert.Equal(t, "GBP", payload["currency"])
	assert.Equal(t, "2011-07-12", payload["start_date"])
	assert.Equal(t, "2011-10-12", payload["end_date"])
	assert.Equal(t, "GBP-LIBOR-3M", payload["index"])
	assert.Equal(t, "ISDA", payload["discounting"])
	assert.NotContains(t, payload, "index_interpolated")
}

func TestTradeRecords_FraInterpolated(t *testing.T) {
	trade := fixtureFraTrade()
	interpolated := index.IborIndex{Name: "GBP-LIBOR-6M", Tenor: basics.Period{Months: 6}}
	trade.Product.IndexInterpolated = &interpolated

	records, err := tradeRecords(7, []models.Trade{trade})
	require.NoError(t, err)
	require.Len(t, records, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(records[0].Payload, &payload))
	assert.Equal(t, "GBP-LIBOR-6M", payload["index_interpolated"])
}

func TestTradeRecords_Swap(t *testing.T) {
	records, err := tradeRecords(3, []models.Trade{fixtureSwapTrade()})
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "IRS-2011-0007", record.TradeID)
	assert.Equal(t, "swap", record.Product)

	var payload swapSummary
	require.NoError(t, json.Unmarshal(record.Payload, &payload))
	require.Len(t, payload.Legs, 2)
	assert.Equal(t, "PAY", payload.Legs[0].PayReceive)
	assert.Equal(t, "fixed", payload.Legs[0].RateType)
	assert.Equal(t, "6M", payload.Legs[0].AccrualFrequency)
	assert.Empty(t, payload.Legs[0].Index)
	assert.Equal(t, "RECEIVE", payload.Legs[1].PayReceive)
	assert.Equal(t, "ibor", payload.Legs[1].RateType)
	assert.Equal(t, "GBP-LIBOR-3M", payload.Legs[1].Index)
	assert.Equal(t, "3M", payload.Legs[1].AccrualFrequency)
}

func TestTradeRecords_ChecksumStability(t *testing.T) {
	t.Run("Expect: the same trade to produce the same checksum across runs", func(t *testing.T) {
		first, err := tradeRecords(1, []models.Trade{fixtureFraTrade()})
		require.NoError(t, err)
		second, err := tradeRecords(99, []models.Trade{fixtureFraTrade()})
		require.NoError(t, err)
		// the document id is not part of the checksum, so a reprocessed
		// document under a new record produces identical checksums
		assert.Equal(t, first[0].Checksum, second[0].Checksum)
	})

	t.Run("Expect: a changed trade to produce a different checksum", func(t *testing.T) {
		original, err := tradeRecords(1, []models.Trade{fixtureFraTrade()})
		require.NoError(t, err)

		changed := fixtureFraTrade()
		changed.Product.FixedRate = decimal.RequireFromString("0.02")
		modified, err := tradeRecords(1, []models.Trade{changed})
		require.NoError(t, err)

		assert.NotEqual(t, original[0].Checksum, modified[0].Checksum)
	})
}
