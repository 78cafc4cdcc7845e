package fpml

import (
	"strings"

	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/date"
	"github.com/quantfield/fpml-trades/internal/index"
	"github.com/quantfield/fpml-trades/internal/models"
	"github.com/quantfield/fpml-trades/internal/xmltree"
)

// Optional sub-elements the trade model cannot represent. Each list belongs
// to one decoding site; presence of any listed element fails the trade.
var (
	calcPeriodAmountRejects = []string{"knownAmountSchedule"}
	calculationRejects      = []string{"fxLinkedNotionalSchedule", "futureValueNotional"}
	floatingRateRejects     = []string{"rateTreatment", "capRateSchedule", "floorRateSchedule"}
	spreadScheduleRejects   = []string{"type"}
	notionalScheduleRejects = []string{"notionalStepParameters"}
	stubRejects             = []string{"stubAmount"}
	stubFloatingRateRejects = []string{
		"floatingRateMultiplierSchedule", "spreadSchedule",
		"rateTreatment", "capRateSchedule", "floorRateSchedule",
	}
	iborResetRejects      = []string{"initialFixingDate", "rateCutOffDaysOffset"}
	overnightResetRejects = []string{"initialFixingDate"}
)

// parseSwapTrade decodes an FpML 'swap' product.
//
// supported elements:
//
//	'swapStream+'
//	'swapStream/buyerPartyReference'
//	'swapStream/sellerPartyReference'
//	'swapStream/calculationPeriodDates'
//	'swapStream/paymentDates'
//	'swapStream/resetDates?'
//	'swapStream/calculationPeriodAmount'
//	'swapStream/stubCalculationPeriodAmount?'
//	'swapStream/principalExchanges?'
//
// ignored elements:
//
//	'Product.model?'
//	'swapStream/cashflows?'
//	'swapStream/settlementProvision?'
//	'swapStream/formula?'
//	'earlyTerminationProvision?'
//	'cancelableProvision?'
//	'extendibleProvision?'
//	'additionalPayment*'
//	'additionalTerms?'
func (p *TradeParser) parseSwapTrade(swapEl *xmltree.Element, info models.TradeInfo) (models.Trade, error) {
	var legs []models.SwapLeg
	for _, legEl := range swapEl.FindAll("swapStream") {
		// calculation
		calcPeriodAmountEl, err := legEl.Child("calculationPeriodAmount")
		if err != nil {
			return nil, wrapParseError(err, "decoding swap stream")
		}
		if err := validateNotPresent(calcPeriodAmountEl, calcPeriodAmountRejects); err != nil {
			return nil, err
		}
		calcEl, err := calcPeriodAmountEl.Child("calculation")
		if err != nil {
			return nil, wrapParseError(err, "decoding swap stream")
		}
		if err := validateNotPresent(calcEl, calculationRejects); err != nil {
			return nil, err
		}
		// pay/receive and counterparty
		payReceive, err := p.resolvePayerReceiver(legEl, &info)
		if err != nil {
			return nil, err
		}
		accrualSchedule, err := p.parseSwapAccrualSchedule(legEl)
		if err != nil {
			return nil, err
		}
		notionalSchedule, err := p.parseSwapNotionalSchedule(legEl, calcEl)
		if err != nil {
			return nil, err
		}
		paymentSchedule, err := p.parseSwapPaymentSchedule(legEl, calcEl)
		if err != nil {
			return nil, err
		}
		calculation, err := p.parseSwapCalculation(legEl, calcEl, accrualSchedule)
		if err != nil {
			return nil, err
		}
		legs = append(legs, models.SwapLeg{
			PayReceive:       payReceive,
			AccrualSchedule:  accrualSchedule,
			PaymentSchedule:  paymentSchedule,
			NotionalSchedule: notionalSchedule,
			Calculation:      calculation,
		})
	}
	if len(legs) == 0 {
		return nil, parseErrorf("swap has no 'swapStream' elements")
	}
	return models.SwapTrade{TradeInfo: info, Product: models.Swap{Legs: legs}}, nil
}

// parseSwapAccrualSchedule decodes 'calculationPeriodDates'.
//
// ignored elements:
//
//	'calculationPeriodDates/firstCompoundingPeriodEndDate?'
func (p *TradeParser) parseSwapAccrualSchedule(legEl *xmltree.Element) (models.PeriodicSchedule, error) {
	var schedule models.PeriodicSchedule
	calcPeriodDatesEl, err := legEl.Child("calculationPeriodDates")
	if err != nil {
		return schedule, wrapParseError(err, "decoding swap stream")
	}
	// business day adjustments
	adjustmentsEl, err := calcPeriodDatesEl.Child("calculationPeriodDatesAdjustments")
	if err != nil {
		return schedule, wrapParseError(err, "decoding calculation period dates")
	}
	bda, err := p.parseBusinessDayAdjustments(adjustmentsEl)
	if err != nil {
		return schedule, err
	}
	schedule.Adjustment = bda
	// start date
	startDate, err := p.parseAdjustableOrRelativeDate(calcPeriodDatesEl, "effectiveDate", "relativeEffectiveDate")
	if err != nil {
		return schedule, err
	}
	schedule.StartDate = startDate.Unadjusted
	if !bda.Equal(startDate.Adjustment) {
		adj := startDate.Adjustment
		schedule.StartDateAdjustment = &adj
	}
	// end date
	endDate, err := p.parseAdjustableOrRelativeDate(calcPeriodDatesEl, "terminationDate", "relativeTerminationDate")
	if err != nil {
		return schedule, err
	}
	schedule.EndDate = endDate.Unadjusted
	if !bda.Equal(endDate.Adjustment) {
		adj := endDate.Adjustment
		schedule.EndDateAdjustment = &adj
	}
	// first date (overwrites the start date)
	if el := calcPeriodDatesEl.Find("firstPeriodStartDate"); el != nil {
		actualStart, err := p.parseAdjustableDate(el)
		if err != nil {
			return schedule, err
		}
		schedule.StartDate = actualStart.Unadjusted
		schedule.StartDateAdjustment = nil
		if !bda.Equal(actualStart.Adjustment) {
			adj := actualStart.Adjustment
			schedule.StartDateAdjustment = &adj
		}
	}
	// first regular date
	if el := calcPeriodDatesEl.Find("firstRegularPeriodStartDate"); el != nil {
		firstRegular, err := p.parseDate(el)
		if err != nil {
			return schedule, err
		}
		schedule.FirstRegularStartDate = &firstRegular
	}
	// last regular date
	if el := calcPeriodDatesEl.Find("lastRegularPeriodEndDate"); el != nil {
		lastRegular, err := p.parseDate(el)
		if err != nil {
			return schedule, err
		}
		schedule.LastRegularEndDate = &lastRegular
	}
	// stub type
	if el := calcPeriodDatesEl.Find("stubPeriodType"); el != nil {
		schedule.StubConvention, err = parseStubConvention(el)
		if err != nil {
			return schedule, err
		}
	}
	// frequency and roll convention
	freqEl, err := calcPeriodDatesEl.Child("calculationPeriodFrequency")
	if err != nil {
		return schedule, wrapParseError(err, "decoding calculation period dates")
	}
	schedule.Frequency, err = p.parseFrequency(freqEl)
	if err != nil {
		return schedule, err
	}
	rollEl, err := freqEl.Child("rollConvention")
	if err != nil {
		return schedule, wrapParseError(err, "decoding calculation period frequency")
	}
	schedule.RollConvention, err = basics.RollConventionOf(rollEl.Content())
	if err != nil {
		return schedule, wrapParseError(err, "decoding calculation period frequency")
	}
	return schedule, nil
}

// parseAdjustableOrRelativeDate reads a plain adjustable date, falling back
// to a relative date offset resolved through the reference index.
func (p *TradeParser) parseAdjustableOrRelativeDate(
	baseEl *xmltree.Element, dateName, relativeName string) (date.AdjustableDate, error) {

	if el := baseEl.Find(dateName); el != nil {
		return p.parseAdjustableDate(el)
	}
	relEl, err := baseEl.Child(relativeName)
	if err != nil {
		return date.AdjustableDate{}, wrapParseError(err, "decoding '%s'", baseEl.Name())
	}
	return p.parseAdjustedRelativeDateOffset(relEl, map[string]bool{})
}

// parseSwapPaymentSchedule decodes 'paymentDates' and the compounding
// method of the calculation.
//
// ignored elements:
//
//	'paymentDates/calculationPeriodDatesReference'
//	'paymentDates/resetDatesReference'
//	'paymentDates/valuationDatesReference'
//	'paymentDates/firstPaymentDate?'
//	'paymentDates/lastRegularPaymentDate?'
func (p *TradeParser) parseSwapPaymentSchedule(
	legEl, calcEl *xmltree.Element) (models.PaymentSchedule, error) {

	var schedule models.PaymentSchedule
	paymentDatesEl, err := legEl.Child("paymentDates")
	if err != nil {
		return schedule, wrapParseError(err, "decoding swap stream")
	}
	// frequency
	freqEl, err := paymentDatesEl.Child("paymentFrequency")
	if err != nil {
		return schedule, wrapParseError(err, "decoding payment dates")
	}
	schedule.PaymentFrequency, err = p.parseFrequency(freqEl)
	if err != nil {
		return schedule, err
	}
	relativeEl, err := paymentDatesEl.Child("payRelativeTo")
	if err != nil {
		return schedule, wrapParseError(err, "decoding payment dates")
	}
	schedule.PaymentRelativeTo, err = parsePayRelativeTo(relativeEl)
	if err != nil {
		return schedule, err
	}
	// offset
	adjustmentsEl, err := paymentDatesEl.Child("paymentDatesAdjustments")
	if err != nil {
		return schedule, wrapParseError(err, "decoding payment dates")
	}
	payAdjustment, err := p.parseBusinessDayAdjustments(adjustmentsEl)
	if err != nil {
		return schedule, err
	}
	if offsetEl := paymentDatesEl.Find("paymentDaysOffset"); offsetEl != nil {
		period, err := p.parsePeriod(offsetEl)
		if err != nil {
			return schedule, err
		}
		if period.TotalMonths() != 0 {
			return schedule, parseErrorf(
				"invalid 'paymentDatesAdjustments' value, expected days-based period: %s", period)
		}
		if period.IsZero() || dayTypeIsCalendar(offsetEl) {
			schedule.PaymentDateOffset = date.CalendarDays(period.Days, payAdjustment)
		} else {
			schedule.PaymentDateOffset = date.BusinessDays(period.Days, payAdjustment.Calendar)
		}
	} else {
		schedule.PaymentDateOffset = date.CalendarDays(0, payAdjustment)
	}
	// compounding
	if compoundingEl := calcEl.Find("compoundingMethod"); compoundingEl != nil {
		schedule.CompoundingMethod, err = models.CompoundingMethodOf(compoundingEl.Content())
		if err != nil {
			return schedule, wrapParseError(err, "decoding calculation")
		}
	}
	return schedule, nil
}

// parseSwapNotionalSchedule decodes the notional amount and principal
// exchange flags of a leg.
func (p *TradeParser) parseSwapNotionalSchedule(
	legEl, calcEl *xmltree.Element) (models.NotionalSchedule, error) {

	var schedule models.NotionalSchedule
	// exchanges
	if exchangesEl := legEl.Find("principalExchanges"); exchangesEl != nil {
		var err error
		schedule.InitialExchange, err = parseBool(exchangesEl, "initialExchange")
		if err != nil {
			return schedule, err
		}
		schedule.IntermediateExchange, err = parseBool(exchangesEl, "intermediateExchange")
		if err != nil {
			return schedule, err
		}
		schedule.FinalExchange, err = parseBool(exchangesEl, "finalExchange")
		if err != nil {
			return schedule, err
		}
	}
	// notional schedule
	notionalEl, err := calcEl.Child("notionalSchedule")
	if err != nil {
		return schedule, wrapParseError(err, "decoding calculation")
	}
	if err := validateNotPresent(notionalEl, notionalScheduleRejects); err != nil {
		return schedule, err
	}
	stepScheduleEl, err := notionalEl.Child("notionalStepSchedule")
	if err != nil {
		return schedule, wrapParseError(err, "decoding notional schedule")
	}
	schedule.Amount, err = p.parseSchedule(stepScheduleEl)
	if err != nil {
		return schedule, err
	}
	currencyEl, err := stepScheduleEl.Child("currency")
	if err != nil {
		return schedule, wrapParseError(err, "decoding notional schedule")
	}
	schedule.Currency, err = p.parseCurrency(currencyEl)
	if err != nil {
		return schedule, err
	}
	return schedule, nil
}

func parseBool(baseEl *xmltree.Element, childName string) (bool, error) {
	el, err := baseEl.Child(childName)
	if err != nil {
		return false, wrapParseError(err, "decoding '%s'", baseEl.Name())
	}
	return strings.EqualFold(el.Content(), "true"), nil
}

// parseSwapCalculation decodes the rate calculation of a leg: fixed, ibor
// or overnight, determined by the calculation content and the index kind.
func (p *TradeParser) parseSwapCalculation(
	legEl, calcEl *xmltree.Element, accrualSchedule models.PeriodicSchedule) (models.RateCalculation, error) {

	if fixedEl := calcEl.Find("fixedRateSchedule"); fixedEl != nil {
		return p.parseFixedCalculation(fixedEl, calcEl)
	}
	floatingEl := calcEl.Find("floatingRateCalculation")
	if floatingEl == nil {
		return nil, parseErrorf("invalid 'calculation' type, not fixedRateSchedule or floatingRateCalculation")
	}
	if err := validateNotPresent(floatingEl, floatingRateRejects); err != nil {
		return nil, err
	}
	fri, _, err := p.parseFloatingRateIndex(floatingEl)
	if err != nil {
		return nil, err
	}
	switch fri.Kind {
	case index.KindIbor:
		return p.parseIborCalculation(legEl, calcEl, floatingEl, accrualSchedule)
	case index.KindOvernightCompounded, index.KindOvernightAveraged:
		return p.parseOvernightCalculation(legEl, calcEl, floatingEl, fri)
	default:
		return nil, parseErrorf("invalid 'floatingRateIndex' type, not ibor or overnight")
	}
}

func (p *TradeParser) parseFixedCalculation(
	fixedEl, calcEl *xmltree.Element) (models.RateCalculation, error) {

	rate, err := p.parseSchedule(fixedEl)
	if err != nil {
		return nil, err
	}
	dayCount, err := p.parseCalcDayCount(calcEl)
	if err != nil {
		return nil, err
	}
	return models.FixedRateCalculation{DayCount: dayCount, Rate: rate}, nil
}

func (p *TradeParser) parseIborCalculation(
	legEl, calcEl, floatingEl *xmltree.Element,
	accrualSchedule models.PeriodicSchedule) (models.RateCalculation, error) {

	var calc models.IborRateCalculation
	var err error
	// day count
	calc.DayCount, err = p.parseCalcDayCount(calcEl)
	if err != nil {
		return nil, err
	}
	// index
	calc.Index, err = p.parseIndex(floatingEl)
	if err != nil {
		return nil, err
	}
	// gearing
	if el := floatingEl.Find("floatingRateMultiplierSchedule"); el != nil {
		gearing, err := p.parseSchedule(el)
		if err != nil {
			return nil, err
		}
		calc.Gearing = &gearing
	}
	// spread
	calc.Spread, err = p.parseSpreadSchedule(floatingEl)
	if err != nil {
		return nil, err
	}
	// initial fixed rate
	if el := floatingEl.Find("initialRate"); el != nil {
		rate, err := p.parseDecimal(el)
		if err != nil {
			return nil, err
		}
		calc.FirstRegularRate = &rate
	}
	// negative rates
	calc.NegativeRate, err = parseNegativeRateTreatment(floatingEl)
	if err != nil {
		return nil, err
	}
	// resets
	resetDatesEl, err := legEl.Child("resetDates")
	if err != nil {
		return nil, wrapParseError(err, "decoding swap stream")
	}
	if err := validateNotPresent(resetDatesEl, iborResetRejects); err != nil {
		return nil, err
	}
	if el := resetDatesEl.Find("resetRelativeTo"); el != nil {
		calc.FixingRelativeTo, err = parseResetRelativeTo(el)
		if err != nil {
			return nil, err
		}
	}
	// fixing date offset
	fixingDatesEl, err := resetDatesEl.Child("fixingDates")
	if err != nil {
		return nil, wrapParseError(err, "decoding reset dates")
	}
	calc.FixingDateOffset, err = p.parseRelativeDateOffsetDays(fixingDatesEl)
	if err != nil {
		return nil, err
	}
	// a reset schedule is only needed when resets are more frequent than
	// accrual periods
	resetFreqEl, err := resetDatesEl.Child("resetFrequency")
	if err != nil {
		return nil, wrapParseError(err, "decoding reset dates")
	}
	resetFreq, err := p.parseFrequency(resetFreqEl)
	if err != nil {
		return nil, err
	}
	if accrualSchedule.Frequency != resetFreq {
		resetSchedule := models.ResetSchedule{ResetFrequency: resetFreq}
		if el := floatingEl.Find("averagingMethod"); el != nil {
			resetSchedule.AveragingMethod, err = parseAveragingMethod(el)
			if err != nil {
				return nil, err
			}
		}
		resetAdjEl, err := resetDatesEl.Child("resetDatesAdjustments")
		if err != nil {
			return nil, wrapParseError(err, "decoding reset dates")
		}
		resetSchedule.Adjustment, err = p.parseBusinessDayAdjustments(resetAdjEl)
		if err != nil {
			return nil, err
		}
		calc.ResetPeriods = &resetSchedule
	}
	// stubs
	if stubsEl := legEl.Find("stubCalculationPeriodAmount"); stubsEl != nil {
		if el := stubsEl.Find("initialStub"); el != nil {
			stub, err := p.parseStubCalculation(el)
			if err != nil {
				return nil, err
			}
			calc.InitialStub = &stub
		}
		if el := stubsEl.Find("finalStub"); el != nil {
			stub, err := p.parseStubCalculation(el)
			if err != nil {
				return nil, err
			}
			calc.FinalStub = &stub
		}
	}
	return calc, nil
}

func (p *TradeParser) parseOvernightCalculation(
	legEl, calcEl, floatingEl *xmltree.Element,
	fri index.FloatingRateIndex) (models.RateCalculation, error) {

	var calc models.OvernightRateCalculation
	var err error
	if err := validateNotPresent(legEl, []string{"stubCalculationPeriodAmount"}); err != nil {
		return nil, err
	}
	if err := validateNotPresent(floatingEl, []string{"initialRate"}); err != nil {
		return nil, err
	}
	// day count
	calc.DayCount, err = p.parseCalcDayCount(calcEl)
	if err != nil {
		return nil, err
	}
	// index and accrual method
	calc.Index, err = p.parseOvernightIndex(floatingEl)
	if err != nil {
		return nil, err
	}
	if fri.Kind == index.KindOvernightAveraged {
		calc.AccrualMethod = models.AccrualAveraged
	} else {
		calc.AccrualMethod = models.AccrualCompounded
	}
	// gearing
	if el := floatingEl.Find("floatingRateMultiplierSchedule"); el != nil {
		gearing, err := p.parseSchedule(el)
		if err != nil {
			return nil, err
		}
		calc.Gearing = &gearing
	}
	// spread
	calc.Spread, err = p.parseSpreadSchedule(floatingEl)
	if err != nil {
		return nil, err
	}
	// negative rates
	calc.NegativeRate, err = parseNegativeRateTreatment(floatingEl)
	if err != nil {
		return nil, err
	}
	// rate cut off
	resetDatesEl, err := legEl.Child("resetDates")
	if err != nil {
		return nil, wrapParseError(err, "decoding swap stream")
	}
	if err := validateNotPresent(resetDatesEl, overnightResetRejects); err != nil {
		return nil, err
	}
	if el := resetDatesEl.Find("rateCutOffDaysOffset"); el != nil {
		cutOff, err := p.parsePeriod(el)
		if err != nil {
			return nil, err
		}
		if cutOff.TotalMonths() != 0 {
			return nil, parseErrorf(
				"invalid 'rateCutOffDaysOffset' value, expected days-based period: %s", cutOff)
		}
		calc.RateCutOffDays = -cutOff.Days
	}
	return calc, nil
}

func (p *TradeParser) parseCalcDayCount(calcEl *xmltree.Element) (basics.DayCount, error) {
	dayCountEl, err := calcEl.Child("dayCountFraction")
	if err != nil {
		return "", wrapParseError(err, "decoding calculation")
	}
	return p.parseDayCountFraction(dayCountEl)
}

// parseSpreadSchedule decodes at most one 'spreadSchedule'.
func (p *TradeParser) parseSpreadSchedule(floatingEl *xmltree.Element) (*models.ValueSchedule, error) {
	spreadEls := floatingEl.FindAll("spreadSchedule")
	if len(spreadEls) > 1 {
		return nil, parseErrorf("only one 'spreadSchedule' is supported")
	}
	if len(spreadEls) == 0 {
		return nil, nil
	}
	if err := validateNotPresent(spreadEls[0], spreadScheduleRejects); err != nil {
		return nil, err
	}
	spread, err := p.parseSchedule(spreadEls[0])
	if err != nil {
		return nil, err
	}
	return &spread, nil
}

// parseStubCalculation decodes an FpML 'StubValue': an explicit rate, one
// floating rate, or two for interpolation.
func (p *TradeParser) parseStubCalculation(baseEl *xmltree.Element) (models.StubCalculation, error) {
	if err := validateNotPresent(baseEl, stubRejects); err != nil {
		return models.StubCalculation{}, err
	}
	if rateEl := baseEl.Find("stubRate"); rateEl != nil {
		rate, err := p.parseDecimal(rateEl)
		if err != nil {
			return models.StubCalculation{}, err
		}
		return models.FixedRateStub(rate), nil
	}
	floatingEls := baseEl.FindAll("floatingRate")
	for _, el := range floatingEls {
		if err := validateNotPresent(el, stubFloatingRateRejects); err != nil {
			return models.StubCalculation{}, err
		}
	}
	switch len(floatingEls) {
	case 1:
		idx, err := p.parseIndex(floatingEls[0])
		if err != nil {
			return models.StubCalculation{}, err
		}
		return models.IborStub(idx), nil
	case 2:
		idx1, err := p.parseIndex(floatingEls[0])
		if err != nil {
			return models.StubCalculation{}, err
		}
		idx2, err := p.parseIndex(floatingEls[1])
		if err != nil {
			return models.StubCalculation{}, err
		}
		return models.InterpolatedStub(idx1, idx2), nil
	}
	return models.StubCalculation{}, parseErrorf("unknown stub structure in '%s'", baseEl.Name())
}

func parseStubConvention(baseEl *xmltree.Element) (models.StubConvention, error) {
	switch baseEl.Content() {
	case "ShortInitial":
		return models.StubShortInitial, nil
	case "ShortFinal":
		return models.StubShortFinal, nil
	case "LongInitial":
		return models.StubLongInitial, nil
	case "LongFinal":
		return models.StubLongFinal, nil
	default:
		return "", parseErrorf("unknown 'stubPeriodType': %s", baseEl.Content())
	}
}

func parsePayRelativeTo(baseEl *xmltree.Element) (models.PaymentRelativeTo, error) {
	switch baseEl.Content() {
	case "CalculationPeriodStartDate":
		return models.PaymentPeriodStart, nil
	case "CalculationPeriodEndDate":
		return models.PaymentPeriodEnd, nil
	default:
		return "", parseErrorf("unknown 'payRelativeTo': %s", baseEl.Content())
	}
}

func parseResetRelativeTo(baseEl *xmltree.Element) (models.FixingRelativeTo, error) {
	switch baseEl.Content() {
	case "CalculationPeriodStartDate":
		return models.FixingPeriodStart, nil
	case "CalculationPeriodEndDate":
		return models.FixingPeriodEnd, nil
	default:
		return "", parseErrorf("unknown 'resetRelativeTo': %s", baseEl.Content())
	}
}

func parseNegativeRateTreatment(floatingEl *xmltree.Element) (models.NegativeRateMethod, error) {
	el := floatingEl.Find("negativeInterestRateTreatment")
	if el == nil {
		return models.AllowNegativeRates, nil
	}
	switch el.Content() {
	case "NegativeInterestRateMethod":
		return models.AllowNegativeRates, nil
	case "ZeroInterestRateMethod":
		return models.NotNegativeRates, nil
	default:
		return "", parseErrorf("unknown 'negativeInterestRateTreatment': %s", el.Content())
	}
}

func parseAveragingMethod(baseEl *xmltree.Element) (models.AveragingMethod, error) {
	switch baseEl.Content() {
	case "Unweighted":
		return models.AveragingUnweighted, nil
	case "Weighted":
		return models.AveragingWeighted, nil
	default:
		return "", parseErrorf("unknown 'averagingMethod': %s", baseEl.Content())
	}
}
