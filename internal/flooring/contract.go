package flooring

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mteam88/rand-floor-monitor/internal/chain"
)

// Contract binds the chain client to one deployed Flooring contract.
type Contract struct {
	chain   *chain.Client
	address common.Address
}

func NewContract(chainClient *chain.Client, address common.Address) *Contract {
	return &Contract{chain: chainClient, address: address}
}

// FragmentToken resolves a collection's fragment ERC-20 token address.
func (c *Contract) FragmentToken(ctx context.Context, collection common.Address) (common.Address, error) {
	return FragmentToken(ctx, c.chain, c.address, collection)
}
