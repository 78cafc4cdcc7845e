// Package fpml converts FpML v5.x trade confirmation documents into the
// typed trade model. It handles the FRA and vanilla/OIS swap subset; any
// product or optional sub-element outside that subset fails decoding rather
// than being silently dropped.
package fpml

import (
	"strings"

	"github.com/quantfield/fpml-trades/internal/basics"
	"github.com/quantfield/fpml-trades/internal/models"
	"github.com/quantfield/fpml-trades/internal/xmltree"
)

// Streaming trades directly from the input is not practical: the party
// elements needed to resolve roles sit after the trades in document order,
// so the whole document loads first.

const hrefAttr = "href"

const (
	tradeIDScheme = "FpML-tradeId"
	partyIDScheme = "FpML-partyId"
)

// partyEntry associates a party's local reference id with the party
// identifiers it declares. Document order is preserved so duplicate party
// identifiers resolve deterministically to the first declaring party.
type partyEntry struct {
	refID    string
	partyIDs []string
}

// TradeParser decodes the trades of one FpML document. Each parse owns its
// own parser; instances are not shared.
type TradeParser struct {
	root           *xmltree.Element
	refs           xmltree.ReferenceIndex
	parties        []partyEntry
	ourPartyHrefID string
}

// New loads an FpML document and resolves our party's reference id.
// ourParty is the identifier expected inside a <partyId> element.
func New(data []byte, ourParty string) (*TradeParser, error) {
	doc, err := xmltree.Parse(data, "id")
	if err != nil {
		return nil, wrapParseError(err, "loading FpML document")
	}
	return NewFromDocument(doc, ourParty)
}

// NewFromDocument builds a parser over an already loaded document.
func NewFromDocument(doc *xmltree.Document, ourParty string) (*TradeParser, error) {
	p := &TradeParser{
		root:    doc.Root,
		refs:    doc.Refs,
		parties: parseParties(doc.Root),
	}
	refID, err := findOurParty(p.parties, ourParty)
	if err != nil {
		return nil, err
	}
	p.ourPartyHrefID = refID
	return p, nil
}

// parseParties collects the root-level party elements in document order.
func parseParties(root *xmltree.Element) []partyEntry {
	var parties []partyEntry
	for _, partyEl := range root.FindAll("party") {
		refID, ok := partyEl.Attr("id")
		if !ok {
			continue
		}
		var ids []string
		for _, idEl := range partyEl.FindAll("partyId") {
			if idEl.HasContent() {
				ids = append(ids, idEl.Content())
			}
		}
		parties = append(parties, partyEntry{refID: refID, partyIDs: ids})
	}
	return parties
}

// findOurParty locates the reference id of the party declaring ourParty.
// The first declaring party in document order wins.
func findOurParty(parties []partyEntry, ourParty string) (string, error) {
	for _, entry := range parties {
		for _, id := range entry.partyIDs {
			if id == ourParty {
				return entry.refID, nil
			}
		}
	}
	return "", parseErrorf("document does not contain our party ID: '%s' not found", ourParty)
}

// partyIDForRef returns the first party identifier declared by the party
// with the given reference id.
func (p *TradeParser) partyIDForRef(refID string) (string, error) {
	for _, entry := range p.parties {
		if entry.refID == refID && len(entry.partyIDs) > 0 {
			return entry.partyIDs[0], nil
		}
	}
	return "", parseErrorf("no party found for reference id '%s'", refID)
}

// ParseTrades decodes every trade element of the document, in document
// order. Any failure aborts the whole document; there is no partial result.
func (p *TradeParser) ParseTrades() ([]models.Trade, error) {
	var trades []models.Trade
	for _, tradeEl := range p.root.FindAll("trade") {
		trade, err := p.parseTrade(tradeEl)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func (p *TradeParser) parseTrade(tradeEl *xmltree.Element) (models.Trade, error) {
	// element 'otherPartyPayment' is ignored
	var info models.TradeInfo
	tradeHeaderEl, err := tradeEl.Child("tradeHeader")
	if err != nil {
		return nil, wrapParseError(err, "decoding trade")
	}
	tradeDateEl, err := tradeHeaderEl.Child("tradeDate")
	if err != nil {
		return nil, wrapParseError(err, "decoding trade header")
	}
	info.TradeDate, err = p.parseDate(tradeDateEl)
	if err != nil {
		return nil, err
	}
	// only the identifier belonging to our party's side is kept
	for _, identEl := range tradeHeaderEl.FindAll("partyTradeIdentifier") {
		partyRefEl, err := identEl.Child("partyReference")
		if err != nil {
			return nil, wrapParseError(err, "decoding partyTradeIdentifier")
		}
		href, ok := partyRefEl.Attr(hrefAttr)
		if !ok {
			return nil, parseErrorf("missing 'href' attribute on 'partyReference'")
		}
		if href == p.ourPartyHrefID {
			tradeIDEl, err := identEl.Child("tradeId")
			if err != nil {
				return nil, wrapParseError(err, "decoding partyTradeIdentifier")
			}
			info.ID = models.Identifier{Scheme: tradeIDScheme, Value: tradeIDEl.Content()}
		}
	}

	if fraEl := tradeEl.Find("fra"); fraEl != nil {
		return p.parseFraTrade(fraEl, info)
	}
	if swapEl := tradeEl.Find("swap"); swapEl != nil {
		return p.parseSwapTrade(swapEl, info)
	}
	return nil, parseErrorf("unknown product type, not fra or swap")
}

// resolvePayerReceiver converts an FpML PayerReceiver.model into a pay or
// receive direction relative to our party, establishing or checking the
// trade counterparty. A trade has exactly one counterparty across its legs.
func (p *TradeParser) resolvePayerReceiver(baseEl *xmltree.Element, info *models.TradeInfo) (basics.PayReceive, error) {
	payerRef, err := hrefOfChild(baseEl, "payerPartyReference")
	if err != nil {
		return "", err
	}
	receiverRef, err := hrefOfChild(baseEl, "receiverPartyReference")
	if err != nil {
		return "", err
	}
	switch p.ourPartyHrefID {
	case payerRef:
		if err := p.assignCounterparty(info, receiverRef); err != nil {
			return "", err
		}
		return basics.Pay, nil
	case receiverRef:
		if err := p.assignCounterparty(info, payerRef); err != nil {
			return "", err
		}
		return basics.Receive, nil
	default:
		return "", parseErrorf(
			"neither payerPartyReference nor receiverPartyReference contain our party ID: %s", p.ourPartyHrefID)
	}
}

func (p *TradeParser) assignCounterparty(info *models.TradeInfo, counterpartyRef string) error {
	partyID, err := p.partyIDForRef(counterpartyRef)
	if err != nil {
		return err
	}
	proposed := models.Identifier{Scheme: partyIDScheme, Value: partyID}
	if info.Counterparty.IsZero() {
		info.Counterparty = proposed
		return nil
	}
	if info.Counterparty != proposed {
		return parseErrorf("two different counterparties found: %s and %s", info.Counterparty, proposed)
	}
	return nil
}

// lookupReference resolves the href attribute of an element against the
// document's reference index.
func (p *TradeParser) lookupReference(hrefEl *xmltree.Element) (*xmltree.Element, error) {
	hrefID, ok := hrefEl.Attr(hrefAttr)
	if !ok {
		return nil, parseErrorf("missing 'href' attribute on '%s'", hrefEl.Name())
	}
	el, ok := p.refs.Lookup(hrefID)
	if !ok {
		return nil, parseErrorf("document reference not found: href='%s'", hrefID)
	}
	return el, nil
}

func hrefOfChild(el *xmltree.Element, childName string) (string, error) {
	child, err := el.Child(childName)
	if err != nil {
		return "", wrapParseError(err, "decoding '%s'", el.Name())
	}
	href, ok := child.Attr(hrefAttr)
	if !ok {
		return "", parseErrorf("missing 'href' attribute on '%s'", childName)
	}
	return href, nil
}

// validateNotPresent rejects optional sub-elements the trade model cannot
// represent. Silently ignoring an unsupported modifier would misrepresent
// the trade's economics.
func validateNotPresent(el *xmltree.Element, rejected []string) error {
	for _, name := range rejected {
		if el.HasChild(name) {
			return parseErrorf("unsupported element: '%s'", name)
		}
	}
	return nil
}

// validateScheme checks a coding-scheme attribute against its well-known
// URI prefix. An absent attribute is assumed correct.
func validateScheme(el *xmltree.Element, schemeAttr, schemeURIPrefix string) error {
	scheme, ok := el.Attr(schemeAttr)
	if !ok {
		return nil
	}
	if !strings.HasPrefix(scheme, schemeURIPrefix) {
		return parseErrorf("unknown '%s' attribute value: %s", schemeAttr, scheme)
	}
	return nil
}
