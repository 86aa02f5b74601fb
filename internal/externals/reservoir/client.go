package reservoir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mteam88/rand-floor-monitor/internal/model"
)

// nativeCurrency asks the aggregator to report bids in ETH.
const nativeCurrency = "0x0000000000000000000000000000000000000000"

// Client calls the Reservoir order aggregation API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func New(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type bidsResponse struct {
	Orders []struct {
		Price struct {
			NetAmount struct {
				Decimal float64 `json:"decimal"`
			} `json:"netAmount"`
		} `json:"price"`
		Source struct {
			URL  string `json:"url"`
			Name string `json:"name"`
		} `json:"source"`
	} `json:"orders"`
}

// TopBid returns the highest-priced active bid for a token. The API returns
// orders sorted descending by price, so the first entry wins. An empty
// order list yields the zero bid, which downstream treats as "no active
// bids" rather than an error.
func (c *Client) TopBid(ctx context.Context, collection string, tokenID *big.Int) (model.TopBid, error) {
	query := url.Values{}
	query.Set("token", fmt.Sprintf("%s:%s", collection, tokenID.String()))
	query.Set("status", "active")
	query.Set("normalizeRoyalties", "true")
	query.Set("sortBy", "price")
	query.Set("limit", "1")
	query.Set("displayCurrency", nativeCurrency)

	reqURL := fmt.Sprintf("%s/orders/bids/v6?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.TopBid{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.TopBid{}, fmt.Errorf("bids request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.TopBid{}, fmt.Errorf("read bids response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.TopBid{}, fmt.Errorf("bids api status %d: %s", resp.StatusCode, body)
	}

	var decoded bidsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return model.TopBid{}, fmt.Errorf("decode bids response: %w", err)
	}

	if len(decoded.Orders) == 0 {
		c.logger.Debug("no active bids",
			zap.String("collection", collection),
			zap.String("token_id", tokenID.String()),
		)
		return model.TopBid{}, nil
	}

	top := decoded.Orders[0]
	return model.TopBid{
		URL:    top.Source.URL,
		Source: top.Source.Name,
		Price:  top.Price.NetAmount.Decimal,
	}, nil
}
