package model

import (
	"math/big"
)

// FragmentEvent is the decoded FragmentNft log, the unit of work for the
// monitor. Addresses are lowercase hex strings so they can be used directly
// in lookup tables and marketplace URLs.
type FragmentEvent struct {
	Operator    string
	OnBehalfOf  string
	Collection  string
	TokenIDs    []*big.Int
	BlockNumber uint64
	TxHash      string
}
