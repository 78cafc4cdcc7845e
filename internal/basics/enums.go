package basics

// PayReceive indicates whether a leg pays or receives relative to our party.
type PayReceive string

const (
	Pay     PayReceive = "PAY"
	Receive PayReceive = "RECEIVE"
)

// BuySell indicates the direction of a trade relative to our party.
type BuySell string

const (
	Buy  BuySell = "BUY"
	Sell BuySell = "SELL"
)

// DayCount identifies a day count convention. Year-fraction arithmetic is
// outside this module; the parser only needs the identity.
type DayCount string

const (
	DayCountOneOne         DayCount = "1/1"
	DayCountThirty360ISDA  DayCount = "30/360"
	DayCountThirtyE360     DayCount = "30E/360"
	DayCountThirtyE360ISDA DayCount = "30E/360.ISDA"
	DayCountAct360         DayCount = "ACT/360"
	DayCountAct365Fixed    DayCount = "ACT/365F"
	DayCountAct365L        DayCount = "ACT/365L"
	DayCountActActAFB      DayCount = "ACT/ACT.AFB"
	DayCountActActICMA     DayCount = "ACT/ACT.ICMA"
	DayCountActActISDA     DayCount = "ACT/ACT.ISDA"
)
