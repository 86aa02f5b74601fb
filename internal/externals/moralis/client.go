package moralis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Price is the market price of an ERC-20 token. NativeValue is denominated
// in the chain's smallest native unit (wei).
type Price struct {
	NativeValue float64
	TokenName   string
}

// Client calls the Moralis ERC-20 price feed.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type priceResponse struct {
	NativePrice *struct {
		Value string `json:"value"`
	} `json:"nativePrice"`
	TokenName string `json:"tokenName"`
}

// TokenPrice fetches the native-denominated price of an ERC-20 token.
func (c *Client) TokenPrice(ctx context.Context, tokenAddress string) (Price, error) {
	url := fmt.Sprintf("%s/erc20/%s/price?chain=eth", c.baseURL, tokenAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Price{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Price{}, fmt.Errorf("price request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Price{}, fmt.Errorf("read price response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Price{}, fmt.Errorf("price api status %d: %s", resp.StatusCode, body)
	}

	var decoded priceResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Price{}, fmt.Errorf("decode price response: %w", err)
	}
	if decoded.NativePrice == nil {
		return Price{}, fmt.Errorf("missing nativePrice in response: %s", body)
	}

	value, err := strconv.ParseFloat(decoded.NativePrice.Value, 64)
	if err != nil {
		return Price{}, fmt.Errorf("parse native price %q: %w", decoded.NativePrice.Value, err)
	}

	return Price{
		NativeValue: value,
		TokenName:   decoded.TokenName,
	}, nil
}
