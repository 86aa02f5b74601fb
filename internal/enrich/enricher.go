package enrich

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/mteam88/rand-floor-monitor/internal/collections"
	"github.com/mteam88/rand-floor-monitor/internal/externals/moralis"
	"github.com/mteam88/rand-floor-monitor/internal/model"
)

const (
	blurLinkFormat       = "https://blur.io/asset/%s/%s"
	flooringLinkFormat   = "https://www.flooring.io/nft-details/%s/%s"
	openseaProLinkFormat = "https://pro.opensea.io/nft/%s/%s"
)

// ValuationSource fetches a token appraisal by collection slug.
type ValuationSource interface {
	TokenValuation(ctx context.Context, slug string, tokenID *big.Int) (*model.Valuation, error)
}

// BidSource fetches the best active bid for a token.
type BidSource interface {
	TopBid(ctx context.Context, collection string, tokenID *big.Int) (model.TopBid, error)
}

// PriceSource fetches the native-denominated price of an ERC-20 token.
type PriceSource interface {
	TokenPrice(ctx context.Context, tokenAddress string) (moralis.Price, error)
}

// FragmentTokenSource resolves a collection's fragment ERC-20 token.
type FragmentTokenSource interface {
	FragmentToken(ctx context.Context, collection common.Address) (common.Address, error)
}

// Config holds the fragment token peg parameters. PegRatio is the number
// of fragment tokens pegged to one NFT; Decimals is the fragment token's
// smallest-unit scale.
type Config struct {
	PegRatio float64
	Decimals int
}

// Enricher turns a raw FragmentEvent into the reference token and the
// per-token market data the composer needs. Every lookup is degradable:
// failures are logged and collapse to absent or zero values, never
// propagated.
type Enricher struct {
	registry   *collections.Registry
	fragments  FragmentTokenSource
	valuations ValuationSource
	bids       BidSource
	prices     PriceSource
	cfg        Config
	logger     *zap.Logger
}

func NewEnricher(
	registry *collections.Registry,
	fragments FragmentTokenSource,
	valuations ValuationSource,
	bids BidSource,
	prices PriceSource,
	cfg Config,
	logger *zap.Logger,
) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		registry:   registry,
		fragments:  fragments,
		valuations: valuations,
		bids:       bids,
		prices:     prices,
		cfg:        cfg,
		logger:     logger,
	}
}

// EnrichEvent resolves the reference token once for the event, then fans
// token lookups out concurrently. Results land in slots indexed by the
// original token position, so the returned slice keeps the event's token
// order regardless of completion order.
func (e *Enricher) EnrichEvent(ctx context.Context, ev model.FragmentEvent) (model.ReferenceToken, []model.EnrichedToken) {
	reference := e.Reference(ctx, ev.Collection)

	slug, hasSlug := e.registry.Resolve(ev.Collection)

	tokens := make([]model.EnrichedToken, len(ev.TokenIDs))
	var wg sync.WaitGroup
	for i, tokenID := range ev.TokenIDs {
		wg.Add(1)
		go func(slot int, tokenID *big.Int) {
			defer wg.Done()
			tokens[slot] = e.enrichToken(ctx, ev.Collection, slug, hasSlug, tokenID)
		}(i, tokenID)
	}
	wg.Wait()

	return reference, tokens
}

// Reference derives the per-NFT reference price from the collection's
// fragment token: collectionInfo chain call, then the price feed, then
// price × PegRatio / 10^Decimals. Called once per event. On any failure it
// returns the zero ReferenceToken.
func (e *Enricher) Reference(ctx context.Context, collection string) model.ReferenceToken {
	fragmentToken, err := e.fragments.FragmentToken(ctx, common.HexToAddress(collection))
	if err != nil {
		e.logger.Warn("fragment token lookup failed", zap.String("collection", collection), zap.Error(err))
		return model.ReferenceToken{}
	}

	tokenAddress := strings.ToLower(fragmentToken.Hex())
	price, err := e.prices.TokenPrice(ctx, tokenAddress)
	if err != nil {
		e.logger.Warn("fragment token price fetch failed", zap.String("token", tokenAddress), zap.Error(err))
		return model.ReferenceToken{}
	}

	derived := price.NativeValue * e.cfg.PegRatio / math.Pow10(e.cfg.Decimals)

	return model.ReferenceToken{
		DexLink:      fmt.Sprintf("https://dexscreener.com/ethereum/%s", tokenAddress),
		Name:         price.TokenName,
		DerivedPrice: derived,
	}
}

func (e *Enricher) enrichToken(ctx context.Context, collection, slug string, hasSlug bool, tokenID *big.Int) model.EnrichedToken {
	id := tokenID.String()
	token := model.EnrichedToken{
		TokenID:        id,
		BlurLink:       fmt.Sprintf(blurLinkFormat, collection, id),
		FlooringLink:   fmt.Sprintf(flooringLinkFormat, collection, id),
		OpenseaProLink: fmt.Sprintf(openseaProLinkFormat, collection, id),
	}

	// No slug means no valuation lookup at all; absence is the graceful
	// default, not a failure.
	if hasSlug {
		valuation, err := e.valuations.TokenValuation(ctx, slug, tokenID)
		if err != nil {
			e.logger.Warn("valuation fetch failed", zap.String("slug", slug), zap.String("token_id", id), zap.Error(err))
		} else {
			token.Valuation = valuation
		}
	}

	bid, err := e.bids.TopBid(ctx, collection, tokenID)
	if err != nil {
		e.logger.Warn("top bid fetch failed", zap.String("collection", collection), zap.String("token_id", id), zap.Error(err))
	} else {
		token.TopBid = bid
	}

	return token
}
