package compose

import (
	"math/big"
	"strings"
	"testing"

	"github.com/mteam88/rand-floor-monitor/internal/model"
)

func testEvent() model.FragmentEvent {
	return model.FragmentEvent{
		Operator:    "0x1111111111111111111111111111111111111111",
		OnBehalfOf:  "0x2222222222222222222222222222222222222222",
		Collection:  "0xed5af388653567af2f388e6224dc7c4b3241c544",
		TokenIDs:    []*big.Int{big.NewInt(1), big.NewInt(2)},
		BlockNumber: 19000000,
		TxHash:      "0xabc123",
	}
}

func TestBuildTotalProfit(t *testing.T) {
	reference := model.ReferenceToken{
		DexLink:      "https://dexscreener.com/ethereum/0xfrag",
		Name:         "uAZUKI",
		DerivedPrice: 2,
	}
	tokens := []model.EnrichedToken{
		{
			TokenID:   "1",
			Valuation: &model.Valuation{URL: "https://deepnftvalue.com/asset/azuki/1", Price: 5},
			TopBid:    model.TopBid{URL: "https://blur.io", Source: "Blur", Price: 6},
		},
		{
			TokenID: "2",
			TopBid:  model.TopBid{},
		},
	}

	n := Build(testEvent(), "azuki", reference, tokens)

	// delta1 = 6-2 = 4, delta2 = 0-2 = -2
	if n.TotalProfit != 2 {
		t.Fatalf("total profit mismatch: %v", n.TotalProfit)
	}
	if len(n.Tokens) != 2 {
		t.Fatalf("token count mismatch: %d", len(n.Tokens))
	}
	if n.Tokens[0].TokenID != "1" || n.Tokens[1].TokenID != "2" {
		t.Fatalf("token order not preserved: %+v", n.Tokens)
	}
	if n.EtherscanLink != "https://etherscan.io/tx/0xabc123" {
		t.Fatalf("etherscan link mismatch: %s", n.EtherscanLink)
	}
	if n.CollectionHeader != "Collection: azuki" {
		t.Fatalf("header mismatch: %s", n.CollectionHeader)
	}
}

func TestBuildUnresolvedCollectionUsesRawAddress(t *testing.T) {
	ev := testEvent()
	n := Build(ev, ev.Collection, model.ReferenceToken{}, nil)

	if n.CollectionHeader != "Collection: "+ev.Collection {
		t.Fatalf("header should fall back to raw address: %s", n.CollectionHeader)
	}
}

func TestRenderDegradedFields(t *testing.T) {
	reference := model.ReferenceToken{
		DexLink:      "https://dexscreener.com/ethereum/0xfrag",
		Name:         "uAZUKI",
		DerivedPrice: 2,
	}
	tokens := []model.EnrichedToken{
		{
			TokenID:        "2",
			BlurLink:       "https://blur.io/asset/0xc/2",
			FlooringLink:   "https://www.flooring.io/nft-details/0xc/2",
			OpenseaProLink: "https://pro.opensea.io/nft/0xc/2",
		},
	}

	text := Render(Build(testEvent(), "azuki", reference, tokens))

	if !strings.Contains(text, "DeepNFTValue valuation unavailable") {
		t.Fatalf("missing valuation marker:\n%s", text)
	}
	if !strings.Contains(text, "No active bids") {
		t.Fatalf("missing no-bids marker:\n%s", text)
	}
	if !strings.Contains(text, "Estimated Arbitrage Profit: -2 ETH") {
		t.Fatalf("delta should be -derivedPrice:\n%s", text)
	}
}

func TestRenderFullToken(t *testing.T) {
	reference := model.ReferenceToken{
		DexLink:      "https://dexscreener.com/ethereum/0xfrag",
		Name:         "uAZUKI",
		DerivedPrice: 2,
	}
	tokens := []model.EnrichedToken{
		{
			TokenID:        "1",
			BlurLink:       "https://blur.io/asset/0xc/1",
			FlooringLink:   "https://www.flooring.io/nft-details/0xc/1",
			OpenseaProLink: "https://pro.opensea.io/nft/0xc/1",
			Valuation:      &model.Valuation{URL: "https://deepnftvalue.com/asset/azuki/1", Price: 5.5},
			TopBid:         model.TopBid{URL: "https://blur.io", Source: "Blur", Price: 6},
		},
	}

	text := Render(Build(testEvent(), "azuki", reference, tokens))

	for _, want := range []string{
		"https://etherscan.io/tx/0xabc123",
		"Collection: azuki",
		"uAZUKI Derived Price: <a href=\"https://dexscreener.com/ethereum/0xfrag\">2 ETH</a>",
		"Token 1: <a href=\"https://blur.io/asset/0xc/1\">Blur</a>",
		"DeepNFTValue valuation: <a href=\"https://deepnftvalue.com/asset/azuki/1\">5.5 ETH</a>",
		"Top Bid (including fees): <a href=\"https://blur.io\">6 ETH on Blur</a>",
		"Estimated Arbitrage Profit: 4 ETH",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func TestRenderMissingReference(t *testing.T) {
	text := Render(Build(testEvent(), "azuki", model.ReferenceToken{}, []model.EnrichedToken{
		{TokenID: "1", TopBid: model.TopBid{URL: "https://x.io", Source: "X", Price: 3}},
	}))

	if !strings.Contains(text, "Derived price unavailable") {
		t.Fatalf("missing reference marker:\n%s", text)
	}
	if !strings.Contains(text, "Estimated Arbitrage Profit: 3 ETH") {
		t.Fatalf("delta should be bid price when derived is 0:\n%s", text)
	}
}
