package model

// Valuation is a per-token appraisal from the valuation service.
type Valuation struct {
	URL   string
	Price float64
}

// TopBid is the highest-priced active buy order for a token. The zero value
// means "no active bids" and is a valid state, not an error: downstream
// arithmetic treats the price as 0.
type TopBid struct {
	URL    string
	Source string
	Price  float64
}

// ReferenceToken is the collection's fragment ERC-20 token with its
// per-NFT derived price. Computed once per event and shared by all tokens.
type ReferenceToken struct {
	DexLink      string
	Name         string
	DerivedPrice float64
}

// EnrichedToken carries one token id plus everything the message needs
// about it. Valuation is nil when the valuation service had nothing.
type EnrichedToken struct {
	TokenID        string
	BlurLink       string
	FlooringLink   string
	OpenseaProLink string
	Valuation      *Valuation
	TopBid         TopBid
}

// Notification is the fully resolved message for one event. Tokens keeps
// the order of the event's token ids. Built exactly once per event and
// discarded after the delivery attempt.
type Notification struct {
	EtherscanLink    string
	CollectionHeader string
	Reference        ReferenceToken
	Tokens           []EnrichedToken
	TotalProfit      float64
}

// Delta is the arbitrage signal for one token: top bid minus the derived
// reference price. Negative when the bid is below the fragment peg.
func (t EnrichedToken) Delta(reference ReferenceToken) float64 {
	return t.TopBid.Price - reference.DerivedPrice
}
