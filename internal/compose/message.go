package compose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mteam88/rand-floor-monitor/internal/model"
)

const etherscanTxFormat = "https://etherscan.io/tx/%s"

// Build assembles the Notification for one event. label is the collection
// slug when resolved, otherwise the raw lowercase-hex address. Tokens must
// already be in the event's token order; Build preserves it. Pure, no I/O.
func Build(ev model.FragmentEvent, label string, reference model.ReferenceToken, tokens []model.EnrichedToken) model.Notification {
	total := 0.0
	for _, token := range tokens {
		total += token.Delta(reference)
	}

	return model.Notification{
		EtherscanLink:    fmt.Sprintf(etherscanTxFormat, ev.TxHash),
		CollectionHeader: "Collection: " + label,
		Reference:        reference,
		Tokens:           tokens,
		TotalProfit:      total,
	}
}

// Render turns a Notification into the Telegram message text. Hyperlink
// anchors are the only markup used. Degraded inputs render as explicit
// "unavailable" / "no active bids" lines; Render itself never fails.
func Render(n model.Notification) string {
	var b strings.Builder

	b.WriteString(n.EtherscanLink)
	b.WriteByte('\n')
	b.WriteString(n.CollectionHeader)
	b.WriteByte('\n')
	b.WriteString(referenceLine(n.Reference))
	b.WriteString("\n\n")

	for _, token := range n.Tokens {
		fmt.Fprintf(&b,
			"Token %s: <a href=\"%s\">Blur</a> -- <a href=\"%s\">Flooring</a> -- <a href=\"%s\">OpenSea Pro</a>\n",
			token.TokenID, token.BlurLink, token.FlooringLink, token.OpenseaProLink,
		)
		b.WriteString(valuationLine(token.Valuation))
		b.WriteByte('\n')
		b.WriteString(bidLine(token.TopBid))
		b.WriteByte('\n')
		fmt.Fprintf(&b, "Estimated Arbitrage Profit: %s ETH\n\n", formatPrice(token.Delta(n.Reference)))
	}

	return b.String()
}

func referenceLine(reference model.ReferenceToken) string {
	if reference.Name == "" && reference.DexLink == "" {
		return "Derived price unavailable"
	}
	return fmt.Sprintf("%s Derived Price: <a href=\"%s\">%s ETH</a>",
		reference.Name, reference.DexLink, formatPrice(reference.DerivedPrice))
}

func valuationLine(valuation *model.Valuation) string {
	if valuation == nil {
		return "DeepNFTValue valuation unavailable"
	}
	return fmt.Sprintf("DeepNFTValue valuation: <a href=\"%s\">%s ETH</a>",
		valuation.URL, formatPrice(valuation.Price))
}

func bidLine(bid model.TopBid) string {
	if bid.Price == 0 && bid.Source == "" {
		return "No active bids"
	}
	return fmt.Sprintf("Top Bid (including fees): <a href=\"%s\">%s ETH on %s</a>",
		bid.URL, formatPrice(bid.Price), bid.Source)
}

func formatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
