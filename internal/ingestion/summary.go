package ingestion

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quantfield/fpml-trades/internal/database"
	"github.com/quantfield/fpml-trades/internal/models"
	"github.com/quantfield/fpml-trades/pkg/checksum"
)

const dateLayout = "2006-01-02"

// fraSummary is the flattened JSON payload stored for a FRA.
type fraSummary struct {
	BuySell           string          `json:"buy_sell"`
	Currency          string          `json:"currency"`
	Notional          decimal.Decimal `json:"notional"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	PaymentDate       string          `json:"payment_date"`
	DayCount          string          `json:"day_count"`
	FixedRate         decimal.Decimal `json:"fixed_rate"`
	Index             string          `json:"index"`
	IndexInterpolated string          `json:"index_interpolated,omitempty"`
	Discounting       string          `json:"discounting"`
}

// legSummary is the flattened JSON payload stored per swap leg.
type legSummary struct {
	PayReceive       string          `json:"pay_receive"`
	Currency         string          `json:"currency"`
	InitialNotional  decimal.Decimal `json:"initial_notional"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	AccrualFrequency string          `json:"accrual_frequency"`
	PaymentFrequency string          `json:"payment_frequency"`
	RateType         string          `json:"rate_type"`
	Index            string          `json:"index,omitempty"`
	DayCount         string          `json:"day_count"`
}

type swapSummary struct {
	Legs []legSummary `json:"legs"`
}

// tradeRecords flattens decoded trades into rows for the fpml_trades table.
// The row checksum covers the identifying fields and the payload, so a
// reprocessed document produces identical checksums and inserts nothing new.
func tradeRecords(documentID int, trades []models.Trade) ([]*database.TradeRecord, error) {
	records := make([]*database.TradeRecord, 0, len(trades))
	for _, trade := range trades {
		payload, err := summarize(trade)
		if err != nil {
			return nil, err
		}
		info := trade.Info()
		record := &database.TradeRecord{
			DocumentID:   documentID,
			TradeID:      info.ID.Value,
			TradeScheme:  info.ID.Scheme,
			Counterparty: info.Counterparty.String(),
			TradeDate:    info.TradeDate,
			Product:      trade.ProductKind(),
			Payload:      payload,
		}
		record.Checksum = recordChecksum(record)
		records = append(records, record)
	}
	return records, nil
}

func recordChecksum(record *database.TradeRecord) string {
	return checksum.OfParts(
		record.TradeScheme,
		record.TradeID,
		record.Counterparty,
		record.TradeDate.Format(dateLayout),
		record.Product,
		string(record.Payload),
	)
}

func summarize(trade models.Trade) ([]byte, error) {
	switch t := trade.(type) {
	case models.FraTrade:
		fra := t.Product
		summary := fraSummary{
			BuySell:     string(fra.BuySell),
			Currency:    string(fra.Currency),
			Notional:    fra.Notional,
			StartDate:   fra.StartDate.Format(dateLayout),
			EndDate:     fra.EndDate.Format(dateLayout),
			PaymentDate: fra.PaymentDate.Adjusted().Format(dateLayout),
			DayCount:    string(fra.DayCount),
			FixedRate:   fra.FixedRate,
			Index:       fra.Index.Name,
			Discounting: string(fra.Discounting),
		}
		if fra.IndexInterpolated != nil {
			summary.IndexInterpolated = fra.IndexInterpolated.Name
		}
		return json.Marshal(summary)
	case models.SwapTrade:
		summary := swapSummary{Legs: make([]legSummary, 0, len(t.Product.Legs))}
		for _, leg := range t.Product.Legs {
			summary.Legs = append(summary.Legs, summarizeLeg(leg))
		}
		return json.Marshal(summary)
	default:
		return nil, fmt.Errorf("unknown product kind '%s'", trade.ProductKind())
	}
}

func summarizeLeg(leg models.SwapLeg) legSummary {
	summary := legSummary{
		PayReceive:       string(leg.PayReceive),
		Currency:         string(leg.NotionalSchedule.Currency),
		InitialNotional:  leg.NotionalSchedule.Amount.InitialValue,
		StartDate:        leg.AccrualSchedule.StartDate.Format(dateLayout),
		EndDate:          leg.AccrualSchedule.EndDate.Format(dateLayout),
		AccrualFrequency: leg.AccrualSchedule.Frequency.String(),
		PaymentFrequency: leg.PaymentSchedule.PaymentFrequency.String(),
	}
	switch calc := leg.Calculation.(type) {
	case models.FixedRateCalculation:
		summary.RateType = "fixed"
		summary.DayCount = string(calc.DayCount)
	case models.IborRateCalculation:
		summary.RateType = "ibor"
		summary.Index = calc.Index.Name
		summary.DayCount = string(calc.DayCount)
	case models.OvernightRateCalculation:
		summary.RateType = "overnight"
		summary.Index = calc.Index.Name
		summary.DayCount = string(calc.DayCount)
	}
	return summary
}
