package deepnftvalue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mteam88/rand-floor-monitor/internal/model"
)

const assetURLFormat = "https://deepnftvalue.com/asset/%s/%s"

// Client calls the DeepNFTValue valuation API.
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

type tokenResponse struct {
	Valuation *struct {
		Price    string `json:"price"`
		Currency string `json:"currency"`
	} `json:"valuation"`
}

// TokenValuation fetches the valuation for one token. A response without a
// valuation object is a valid "no appraisal" answer: the raw payload is
// logged and (nil, nil) is returned. Transport and decode failures return
// an error for the caller to degrade on.
func (c *Client) TokenValuation(ctx context.Context, slug string, tokenID *big.Int) (*model.Valuation, error) {
	url := fmt.Sprintf("%s/v1/tokens/%s/%s", c.baseURL, slug, tokenID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("valuation request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read valuation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("valuation api status %d: %s", resp.StatusCode, body)
	}

	var decoded tokenResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode valuation response: %w", err)
	}

	if decoded.Valuation == nil {
		c.logger.Warn("no valuation in response",
			zap.String("slug", slug),
			zap.String("token_id", tokenID.String()),
			zap.ByteString("payload", body),
		)
		return nil, nil
	}

	price, err := strconv.ParseFloat(decoded.Valuation.Price, 64)
	if err != nil {
		c.logger.Warn("unparseable valuation price",
			zap.String("slug", slug),
			zap.String("token_id", tokenID.String()),
			zap.String("price", decoded.Valuation.Price),
		)
		return nil, nil
	}

	return &model.Valuation{
		URL:   fmt.Sprintf(assetURLFormat, slug, tokenID.String()),
		Price: price,
	}, nil
}
