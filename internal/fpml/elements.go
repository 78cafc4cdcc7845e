package fpml

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/date"
	"github.com/quantfield/fpml-trades/internal/index"
	"github.com/quantfield/fpml-trades/internal/models"
	"github.com/quantfield/fpml-trades/internal/xmltree"
)

const (
	businessCenterScheme    = "http://www.fpml.org/coding-scheme/business-center"
	currencyScheme          = "http://www.fpml.org/coding-scheme/external/iso4217"
	dayCountFractionScheme  = "http://www.fpml.org/coding-scheme/day-count-fraction"
	floatingRateIndexScheme = "http://www.fpml.org/coding-scheme/floating-rate-index"
)

// parseAdjustableDate decodes an FpML 'AdjustableDate'.
// The 'adjustedDate' element is ignored.
func (p *TradeParser) parseAdjustableDate(baseEl *xmltree.Element) (date.AdjustableDate, error) {
	// FpML content: ('unadjustedDate', 'dateAdjustments', 'adjustedDate?')
	unadjEl, err := baseEl.Child("unadjustedDate")
	if err != nil {
		return date.AdjustableDate{}, wrapParseError(err, "decoding adjustable date")
	}
	unadjusted, err := p.parseDate(unadjEl)
	if err != nil {
		return date.AdjustableDate{}, err
	}
	adjEl, err := baseEl.Child("dateAdjustments")
	if err != nil {
		return date.AdjustableDate{}, wrapParseError(err, "decoding adjustable date")
	}
	adjustment, err := p.parseBusinessDayAdjustments(adjEl)
	if err != nil {
		return date.AdjustableDate{}, err
	}
	return date.AdjustableDate{Unadjusted: unadjusted, Adjustment: adjustment}, nil
}

// parseAdjustedRelativeDateOffset resolves an FpML 'AdjustedRelativeDateOffset'
// to a concrete date. The 'dateRelativeTo' target may itself be another
// relative offset; visited guards against reference cycles.
// The 'adjustedDate' element is ignored.
func (p *TradeParser) parseAdjustedRelativeDateOffset(
	baseEl *xmltree.Element, visited map[string]bool) (date.AdjustableDate, error) {

	// FpML content: ('periodMultiplier', 'period', 'dayType?',
	//                'businessDayConvention', 'BusinessCentersOrReference.model?'
	//                'dateRelativeTo', 'adjustedDate', 'relativeDateAdjustments?')
	relToEl, err := baseEl.Child("dateRelativeTo")
	if err != nil {
		return date.AdjustableDate{}, wrapParseError(err, "decoding relative date offset")
	}
	href, _ := relToEl.Attr(hrefAttr)
	if visited[href] {
		return date.AdjustableDate{}, parseErrorf("cyclic 'dateRelativeTo' reference: href='%s'", href)
	}
	visited[href] = true
	targetEl, err := p.lookupReference(relToEl)
	if err != nil {
		return date.AdjustableDate{}, err
	}
	var baseDate time.Time
	switch {
	case targetEl.HasContent():
		baseDate, err = p.parseDate(targetEl)
		if err != nil {
			return date.AdjustableDate{}, err
		}
	case strings.Contains(targetEl.Name(), "relative"):
		resolved, err := p.parseAdjustedRelativeDateOffset(targetEl, visited)
		if err != nil {
			return date.AdjustableDate{}, err
		}
		baseDate = resolved.Adjusted()
	default:
		return date.AdjustableDate{}, parseErrorf("unable to resolve 'dateRelativeTo' to a date: href='%s'", href)
	}
	period, err := p.parsePeriod(baseEl)
	if err != nil {
		return date.AdjustableDate{}, err
	}
	calendarDays := period.IsZero() || dayTypeIsCalendar(baseEl)
	bda1, err := p.parseBusinessDayAdjustments(baseEl)
	if err != nil {
		return date.AdjustableDate{}, err
	}
	bda2 := bda1
	if relAdjEl := baseEl.Find("relativeDateAdjustments"); relAdjEl != nil {
		bda2, err = p.parseBusinessDayAdjustments(relAdjEl)
		if err != nil {
			return date.AdjustableDate{}, err
		}
	}
	// simple calendar arithmetic for month-based or calendar-day offsets,
	// business day stepping otherwise
	var resolved time.Time
	if period.Years > 0 || period.Months > 0 || calendarDays {
		resolved = bda2.Adjust(bda1.Adjust(period.AddTo(baseDate)))
	} else {
		resolved = bda2.Adjust(bda1.Adjust(date.Shift(bda1.Calendar, baseDate, period.Days)))
	}
	return date.AdjustableDate{Unadjusted: resolved, Adjustment: bda2}, nil
}

// parseRelativeDateOffsetDays decodes an FpML 'RelativeDateOffset' into a
// days adjustment. The 'dateRelativeTo' and 'adjustedDate' elements are
// not used here.
func (p *TradeParser) parseRelativeDateOffsetDays(baseEl *xmltree.Element) (date.DaysAdjustment, error) {
	// FpML content: ('periodMultiplier', 'period', 'dayType?',
	//                'businessDayConvention', 'BusinessCentersOrReference.model?'
	//                'dateRelativeTo', 'adjustedDate')
	period, err := p.parsePeriod(baseEl)
	if err != nil {
		return date.DaysAdjustment{}, err
	}
	if period.TotalMonths() != 0 {
		return date.DaysAdjustment{}, parseErrorf("expected days-based period but found %s", period)
	}
	calendarDays := period.IsZero() || dayTypeIsCalendar(baseEl)
	bdcEl, err := baseEl.Child("businessDayConvention")
	if err != nil {
		return date.DaysAdjustment{}, wrapParseError(err, "decoding relative date offset")
	}
	bdc, err := convertBusinessDayConvention(bdcEl.Content())
	if err != nil {
		return date.DaysAdjustment{}, err
	}
	calendar, err := p.parseBusinessCenters(baseEl)
	if err != nil {
		return date.DaysAdjustment{}, err
	}
	if calendarDays {
		adjustment := date.BusinessDayAdjustment{Convention: bdc, Calendar: calendar}
		return date.CalendarDays(period.Days, adjustment), nil
	}
	return date.BusinessDays(period.Days, calendar), nil
}

func dayTypeIsCalendar(baseEl *xmltree.Element) bool {
	dayTypeEl := baseEl.Find("dayType")
	return dayTypeEl != nil && dayTypeEl.Content() == "Calendar"
}

// parseBusinessDayAdjustments decodes an FpML 'BusinessDayAdjustments'.
// Without business centers the adjustment applies against no holidays.
func (p *TradeParser) parseBusinessDayAdjustments(baseEl *xmltree.Element) (date.BusinessDayAdjustment, error) {
	// FpML content: ('businessDayConvention', 'BusinessCentersOrReference.model?')
	bdcEl, err := baseEl.Child("businessDayConvention")
	if err != nil {
		return date.BusinessDayAdjustment{}, wrapParseError(err, "decoding business day adjustments")
	}
	bdc, err := convertBusinessDayConvention(bdcEl.Content())
	if err != nil {
		return date.BusinessDayAdjustment{}, err
	}
	calendar := date.Calendar(date.NoHolidays)
	if baseEl.HasChild("businessCenters") || baseEl.HasChild("businessCentersReference") {
		calendar, err = p.parseBusinessCenters(baseEl)
		if err != nil {
			return date.BusinessDayAdjustment{}, err
		}
	}
	return date.BusinessDayAdjustment{Convention: bdc, Calendar: calendar}, nil
}

// parseBusinessCenters decodes an FpML 'BusinessCentersOrReference.model'
// into a combined holiday calendar.
func (p *TradeParser) parseBusinessCenters(baseEl *xmltree.Element) (date.Calendar, error) {
	// FpML content: ('businessCentersReference' | 'businessCenters')
	// FpML 'businessCenters' content: ('businessCenter+')
	centersEl := baseEl.Find("businessCenters")
	if centersEl == nil {
		refEl, err := baseEl.Child("businessCentersReference")
		if err != nil {
			return nil, wrapParseError(err, "decoding business centers")
		}
		centersEl, err = p.lookupReference(refEl)
		if err != nil {
			return nil, err
		}
	}
	calendar := date.Calendar(date.NoHolidays)
	for _, centerEl := range centersEl.FindAll("businessCenter") {
		center, err := p.parseBusinessCenter(centerEl)
		if err != nil {
			return nil, err
		}
		calendar = date.Combine(calendar, center)
	}
	return calendar, nil
}

func (p *TradeParser) parseBusinessCenter(baseEl *xmltree.Element) (date.Calendar, error) {
	if err := validateScheme(baseEl, "businessCenterScheme", businessCenterScheme); err != nil {
		return nil, err
	}
	calendar, err := date.Lookup(baseEl.Content())
	if err != nil {
		return nil, wrapParseError(err, "decoding business center")
	}
	return calendar, nil
}

// parseIndex decodes an FpML 'FloatingRateIndex.model' expecting exactly
// one index.
func (p *TradeParser) parseIndex(baseEl *xmltree.Element) (index.IborIndex, error) {
	indexes, err := p.parseIborIndexes(baseEl)
	if err != nil {
		return index.IborIndex{}, err
	}
	if len(indexes) != 1 {
		return index.IborIndex{}, parseErrorf("expected one index but found %d", len(indexes))
	}
	return indexes[0], nil
}

// parseIborIndexes decodes an FpML 'FloatingRateIndex' with one or more
// tenors into ibor indices. The index must be of the ibor kind.
func (p *TradeParser) parseIborIndexes(baseEl *xmltree.Element) ([]index.IborIndex, error) {
	fri, tenorEls, err := p.parseFloatingRateIndex(baseEl)
	if err != nil {
		return nil, err
	}
	if len(tenorEls) == 0 {
		return nil, parseErrorf("expected 'indexTenor' for index '%s'", fri.Name)
	}
	var indexes []index.IborIndex
	for _, tenorEl := range tenorEls {
		period, err := p.parsePeriod(tenorEl)
		if err != nil {
			return nil, err
		}
		ibor, err := fri.ToIbor(period)
		if err != nil {
			return nil, wrapParseError(err, "decoding floating rate index")
		}
		indexes = append(indexes, ibor)
	}
	return indexes, nil
}

// parseOvernightIndex decodes an FpML 'FloatingRateIndex' of the overnight
// kind. The index must carry no tenor.
func (p *TradeParser) parseOvernightIndex(baseEl *xmltree.Element) (index.OvernightIndex, error) {
	fri, tenorEls, err := p.parseFloatingRateIndex(baseEl)
	if err != nil {
		return index.OvernightIndex{}, err
	}
	if len(tenorEls) != 0 {
		return index.OvernightIndex{}, parseErrorf("unexpected 'indexTenor' for overnight index '%s'", fri.Name)
	}
	overnight, err := fri.ToOvernight()
	if err != nil {
		return index.OvernightIndex{}, wrapParseError(err, "decoding floating rate index")
	}
	return overnight, nil
}

func (p *TradeParser) parseFloatingRateIndex(
	baseEl *xmltree.Element) (index.FloatingRateIndex, []*xmltree.Element, error) {

	indexEl, err := baseEl.Child("floatingRateIndex")
	if err != nil {
		return index.FloatingRateIndex{}, nil, wrapParseError(err, "decoding floating rate index")
	}
	if err := validateScheme(indexEl, "floatingRateIndexScheme", floatingRateIndexScheme); err != nil {
		return index.FloatingRateIndex{}, nil, err
	}
	fri, err := index.Of(indexEl.Content())
	if err != nil {
		return index.FloatingRateIndex{}, nil, wrapParseError(err, "decoding floating rate index")
	}
	return fri, baseEl.FindAll("indexTenor"), nil
}

// parseSchedule decodes an FpML 'Schedule' of an initial value and dated
// replacement steps.
func (p *TradeParser) parseSchedule(baseEl *xmltree.Element) (models.ValueSchedule, error) {
	// FpML content: ('initialValue', 'step*')
	// FpML 'step' content: ('stepDate', 'stepValue')
	initialEl, err := baseEl.Child("initialValue")
	if err != nil {
		return models.ValueSchedule{}, wrapParseError(err, "decoding schedule")
	}
	initial, err := p.parseDecimal(initialEl)
	if err != nil {
		return models.ValueSchedule{}, err
	}
	schedule := models.ValueSchedule{InitialValue: initial}
	for _, stepEl := range baseEl.FindAll("step") {
		stepDateEl, err := stepEl.Child("stepDate")
		if err != nil {
			return models.ValueSchedule{}, wrapParseError(err, "decoding schedule step")
		}
		stepDate, err := p.parseDate(stepDateEl)
		if err != nil {
			return models.ValueSchedule{}, err
		}
		stepValueEl, err := stepEl.Child("stepValue")
		if err != nil {
			return models.ValueSchedule{}, wrapParseError(err, "decoding schedule step")
		}
		stepValue, err := p.parseDecimal(stepValueEl)
		if err != nil {
			return models.ValueSchedule{}, err
		}
		schedule.Steps = append(schedule.Steps, models.ValueStep{Date: stepDate, Value: stepValue})
	}
	return schedule, nil
}

// parsePeriod decodes an FpML 'Period' pair of multiplier and unit.
func (p *TradeParser) parsePeriod(baseEl *xmltree.Element) (basics.Period, error) {
	// FpML content: ('periodMultiplier', 'period')
	multiplierEl, err := baseEl.Child("periodMultiplier")
	if err != nil {
		return basics.Period{}, wrapParseError(err, "decoding period")
	}
	unitEl, err := baseEl.Child("period")
	if err != nil {
		return basics.Period{}, wrapParseError(err, "decoding period")
	}
	period, err := basics.ParsePeriod(multiplierEl.Content(), unitEl.Content())
	if err != nil {
		return basics.Period{}, wrapParseError(err, "decoding period")
	}
	return period, nil
}

// parseFrequency decodes an FpML frequency, where unit 'T' means the whole
// term of the trade.
func (p *TradeParser) parseFrequency(baseEl *xmltree.Element) (basics.Frequency, error) {
	// FpML content: ('periodMultiplier', 'period')
	multiplierEl, err := baseEl.Child("periodMultiplier")
	if err != nil {
		return basics.Frequency{}, wrapParseError(err, "decoding frequency")
	}
	unitEl, err := baseEl.Child("period")
	if err != nil {
		return basics.Frequency{}, wrapParseError(err, "decoding frequency")
	}
	freq, err := basics.ParseFrequency(multiplierEl.Content(), unitEl.Content())
	if err != nil {
		return basics.Frequency{}, wrapParseError(err, "decoding frequency")
	}
	return freq, nil
}

// parseCurrencyAmount decodes an FpML 'Money' element.
func (p *TradeParser) parseCurrencyAmount(baseEl *xmltree.Element) (basics.Currency, decimal.Decimal, error) {
	// FpML content: ('currency', 'amount')
	currencyEl, err := baseEl.Child("currency")
	if err != nil {
		return "", decimal.Decimal{}, wrapParseError(err, "decoding money")
	}
	currency, err := p.parseCurrency(currencyEl)
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	amountEl, err := baseEl.Child("amount")
	if err != nil {
		return "", decimal.Decimal{}, wrapParseError(err, "decoding money")
	}
	amount, err := p.parseDecimal(amountEl)
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	return currency, amount, nil
}

func (p *TradeParser) parseCurrency(baseEl *xmltree.Element) (basics.Currency, error) {
	if err := validateScheme(baseEl, "currencyScheme", currencyScheme); err != nil {
		return "", err
	}
	currency, err := basics.CurrencyOf(baseEl.Content())
	if err != nil {
		return "", wrapParseError(err, "decoding currency")
	}
	return currency, nil
}

func (p *TradeParser) parseDayCountFraction(baseEl *xmltree.Element) (basics.DayCount, error) {
	if err := validateScheme(baseEl, "dayCountFractionScheme", dayCountFractionScheme); err != nil {
		return "", err
	}
	return convertDayCount(baseEl.Content())
}

func (p *TradeParser) parseDecimal(baseEl *xmltree.Element) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(baseEl.Content())
	if err != nil {
		return decimal.Decimal{}, parseErrorf("invalid number in '%s': %v", baseEl.Name(), err)
	}
	return value, nil
}

func (p *TradeParser) parseDate(baseEl *xmltree.Element) (time.Time, error) {
	parsed, err := convertDate(baseEl.Content())
	if err != nil {
		return time.Time{}, parseErrorf("invalid date in '%s': %v", baseEl.Name(), err)
	}
	return parsed, nil
}
