package fpml

import (
	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/models"
	"github.com/quantfield/fpml-trades/internal/xmltree"
)

// parseFraTrade decodes an FpML 'fra' product.
//
// supported elements:
//
//	'buyerPartyReference'
//	'sellerPartyReference'
//	'adjustedEffectiveDate'
//	'adjustedTerminationDate'
//	'paymentDate'
//	'fixingDateOffset'
//	'dayCountFraction'
//	'notional'
//	'fixedRate'
//	'floatingRateIndex'
//	'indexTenor+'
//	'fraDiscounting'
//
// ignored elements:
//
//	'Product.model?'
//	'buyerAccountReference?'
//	'sellerAccountReference?'
//	'calculationPeriodNumberOfDays'
//	'additionalPayment*'
func (p *TradeParser) parseFraTrade(fraEl *xmltree.Element, info models.TradeInfo) (models.Trade, error) {
	var fra models.Fra
	// buy/sell and counterparty
	buyerRef, err := hrefOfChild(fraEl, "buyerPartyReference")
	if err != nil {
		return nil, err
	}
	sellerRef, err := hrefOfChild(fraEl, "sellerPartyReference")
	if err != nil {
		return nil, err
	}
	switch p.ourPartyHrefID {
	case buyerRef:
		fra.BuySell = basics.Buy
		if err := p.assignCounterparty(&info, sellerRef); err != nil {
			return nil, err
		}
	case sellerRef:
		fra.BuySell = basics.Sell
		if err := p.assignCounterparty(&info, buyerRef); err != nil {
			return nil, err
		}
	default:
		return nil, parseErrorf(
			"neither buyerPartyReference nor sellerPartyReference contain our party ID: %s", p.ourPartyHrefID)
	}
	// start and end dates are already adjusted in the document
	startEl, err := fraEl.Child("adjustedEffectiveDate")
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	fra.StartDate, err = p.parseDate(startEl)
	if err != nil {
		return nil, err
	}
	endEl, err := fraEl.Child("adjustedTerminationDate")
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	fra.EndDate, err = p.parseDate(endEl)
	if err != nil {
		return nil, err
	}
	// payment date
	paymentEl, err := fraEl.Child("paymentDate")
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	fra.PaymentDate, err = p.parseAdjustableDate(paymentEl)
	if err != nil {
		return nil, err
	}
	// fixing offset
	// dateRelativeTo required to refer to adjustedEffectiveDate, so ignored here
	fixingEl, err := fraEl.Child("fixingDateOffset")
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	fra.FixingDateOffset, err = p.parseRelativeDateOffsetDays(fixingEl)
	if err != nil {
		return nil, err
	}
	// day count
	dayCountEl, err := fraEl.Child("dayCountFraction")
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	fra.DayCount, err = p.parseDayCountFraction(dayCountEl)
	if err != nil {
		return nil, err
	}
	// notional
	notionalEl, err := fraEl.Child("notional")
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	fra.Currency, fra.Notional, err = p.parseCurrencyAmount(notionalEl)
	if err != nil {
		return nil, err
	}
	// fixed rate
	rateEl, err := fraEl.Child("fixedRate")
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	fra.FixedRate, err = p.parseDecimal(rateEl)
	if err != nil {
		return nil, err
	}
	// index, with interpolation when two tenors are given
	indexes, err := p.parseIborIndexes(fraEl)
	if err != nil {
		return nil, err
	}
	switch len(indexes) {
	case 1:
		fra.Index = indexes[0]
	case 2:
		fra.Index = indexes[0]
		fra.IndexInterpolated = &indexes[1]
	default:
		return nil, parseErrorf("expected one or two indexes, but found %d", len(indexes))
	}
	// discounting
	discountingEl, err := fraEl.Child("fraDiscounting")
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	fra.Discounting, err = models.FraDiscountingMethodOf(discountingEl.Content())
	if err != nil {
		return nil, wrapParseError(err, "decoding fra")
	}
	return models.FraTrade{TradeInfo: info, Product: fra}, nil
}
